package recommendation

import (
	"github.com/zento-labs/zento/internal/domain/category"
	"github.com/zento-labs/zento/internal/domain/taste"
)

// Query is a plain tag-signal insights request. FreeIntent is the user's raw
// ask; it steers which tags survive the per-query cap.
type Query struct {
	TagIDs     []string
	Category   category.Category
	Location   string
	FreeIntent string
	Take       int
}

// WeightedQuery is a weighted tag-signal insights request. Tags arrive
// already composed and capped by the signal composer.
type WeightedQuery struct {
	Tags     []taste.WeightedTag
	Category category.Category
	Location string
	Take     int
}
