package common

const (
	DefaultPeriod   = "1mo"
	DefaultInterval = "1d"

	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"

	SentimentProviderKeyword = "keyword"
	SentimentProviderGemini  = "gemini"

	RedisKeyLastPrice = "last_price:%s"
)
