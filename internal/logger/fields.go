package logger

import "go.uber.org/zap"

// Collection tags an entry with a collection slug
func Collection(slug string) zap.Field {
	return zap.String("collection", slug)
}

// TokenID tags an entry with a token id
func TokenID(id int64) zap.Field {
	return zap.Int64("tokenID", id)
}

// Trait tags an entry with a trait id
func Trait(id string) zap.Field {
	return zap.String("trait", id)
}
