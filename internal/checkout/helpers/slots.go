package helpers

import "strings"

// DeliverySlot is the delivery window picked for one store.
type DeliverySlot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Complete reports whether both date and time are set.
func (s DeliverySlot) Complete() bool {
	return strings.TrimSpace(s.Date) != "" && strings.TrimSpace(s.Time) != ""
}

// SlotMatch is the outcome of comparing slots across stores.
type SlotMatch struct {
	Matches bool
	// Missing lists stores with no slot at all.
	Missing []string
}

// CheckDeliverySlotsMatch requires every store to have a slot and all slots to
// share the exact same date and time. A single store always matches.
func CheckDeliverySlotsMatch(slots map[string]DeliverySlot, storeIDs []string) SlotMatch {
	if len(storeIDs) <= 1 {
		return SlotMatch{Matches: true}
	}

	result := SlotMatch{Matches: true}
	var first *DeliverySlot
	for _, id := range storeIDs {
		slot, ok := slots[id]
		if !ok {
			result.Matches = false
			result.Missing = append(result.Missing, id)
			continue
		}
		if first == nil {
			s := slot
			first = &s
			continue
		}
		if slot.Date != first.Date || slot.Time != first.Time {
			result.Matches = false
		}
	}
	return result
}
