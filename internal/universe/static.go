package universe

// staticSymbols is a representative sample of major NIFTY 500 members,
// maintained by hand. Not a full universe snapshot.
var staticSymbols = []string{
	"RELIANCE", "TCS", "HDFCBANK", "INFY", "ICICIBANK", "HINDUNILVR", "ITC",
	"SBIN", "BHARTIARTL", "BAJFINANCE", "KOTAKBANK", "LT", "ASIANPAINT",
	"HCLTECH", "AXISBANK", "MARUTI", "SUNPHARMA", "TITAN", "ULTRACEMCO",
	"NESTLEIND", "WIPRO", "ADANIENT", "ONGC", "NTPC", "POWERGRID", "TATAMOTORS",
	"BAJAJFINSV", "JSWSTEEL", "M&M", "TECHM", "INDUSINDBK", "TATASTEEL",
	"ADANIPORTS", "HINDALCO", "COALINDIA", "GRASIM", "BRITANNIA", "SHREECEM",
	"EICHERMOT", "CIPLA", "DRREDDY", "DIVISLAB", "APOLLOHOSP", "BPCL",
	"HEROMOTOCO", "SBILIFE", "HDFCLIFE", "BAJAJ-AUTO", "TATACONSUM",
	"DABUR", "GODREJCP", "MARICO", "PIDILITIND", "BERGEPAINT", "COLPAL",
	"HAVELLS", "VOLTAS", "WHIRLPOOL", "VBL", "MCDOWELL-N", "JUBLFOOD",
	"PAGEIND", "DIXON", "POLYCAB", "CROMPTON", "VGUARD", "BATAINDIA",
	"RELAXO", "TRENT", "ABFRL", "VEDL", "SAIL", "NMDC", "MOIL",
	"ACC", "AMBUJACEM", "RAMCOCEM", "JKCEMENT", "HEIDELBERG", "BANKBARODA",
	"PNB", "CANBK", "UNIONBANK", "IDFCFIRSTB", "FEDERALBNK", "RBLBANK",
	"BANDHANBNK", "PFC", "RECLTD", "IRCTC", "IRFC", "CONCOR", "GMRINFRA",
	"ADANIGREEN", "ADANITRANS", "TATAPOWER", "TORNTPOWER", "CESC", "NHPC",
}
