package bucketlist

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/planme-app/planme-backend/internal/models"
	"gorm.io/datatypes"
)

// Decode parses the bucket_list JSONB column into a slice sorted by
// priority_number. A NULL column yields an empty list.
func Decode(raw datatypes.JSON) ([]models.BucketListItem, error) {
	if len(raw) == 0 {
		return []models.BucketListItem{}, nil
	}

	var items []models.BucketListItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("malformed bucket list payload: %w", err)
	}
	if items == nil {
		items = []models.BucketListItem{}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PriorityNumber < items[j].PriorityNumber
	})
	return items, nil
}

// Encode serializes items back into the JSONB column shape.
func Encode(items []models.BucketListItem) (datatypes.JSON, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bucket list: %w", err)
	}
	return datatypes.JSON(payload), nil
}

// Append adds item to the end of the list, assigning it the next priority
// number (highest existing + 1).
func Append(items []models.BucketListItem, item models.BucketListItem) []models.BucketListItem {
	maxPriority := 0
	for _, existing := range items {
		if existing.PriorityNumber > maxPriority {
			maxPriority = existing.PriorityNumber
		}
	}
	item.PriorityNumber = maxPriority + 1
	return append(items, item)
}

// Renumber rewrites priority numbers to match the given order (1..N).
func Renumber(items []models.BucketListItem) []models.BucketListItem {
	out := make([]models.BucketListItem, len(items))
	for i, item := range items {
		item.PriorityNumber = i + 1
		out[i] = item
	}
	return out
}
