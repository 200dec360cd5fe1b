package classifier

import "strings"

// SlotID identifies a cooldown slot. Zero is reserved for "unknown" so it can
// never equal the Classify miss value.
type SlotID int32

const (
	SlotUnknown SlotID = iota
	SlotAttack
	SlotHealing
	SlotSupport
	SlotExori
	SlotExoriGran
	SlotExoriMas
	SlotExoriMin
	SlotUtura
	SlotUturaGran

	slotCount
)

var slotNames = [slotCount]string{
	SlotUnknown:   "unknown",
	SlotAttack:    "attack",
	SlotHealing:   "healing",
	SlotSupport:   "support",
	SlotExori:     "exori",
	SlotExoriGran: "exori gran",
	SlotExoriMas:  "exori mas",
	SlotExoriMin:  "exori min",
	SlotUtura:     "utura",
	SlotUturaGran: "utura gran",
}

func (s SlotID) String() string {
	if s < 0 || s >= slotCount {
		return slotNames[SlotUnknown]
	}
	return slotNames[s]
}

// Valid reports whether s is a known slot other than SlotUnknown.
func (s SlotID) Valid() bool {
	return s > SlotUnknown && s < slotCount
}

// TemplateKey is the template that identifies the slot's cooldown icon,
// e.g. "cooldowns/exori_gran".
func (s SlotID) TemplateKey() string {
	return CooldownTemplatePrefix + strings.ReplaceAll(s.String(), " ", "_")
}

// ParseSlotID accepts the display name ("exori gran") or the template form
// ("exori_gran"), case-insensitively.
func ParseSlotID(name string) (SlotID, bool) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", " ")
	for id := SlotAttack; id < slotCount; id++ {
		if slotNames[id] == name {
			return id, true
		}
	}
	return SlotUnknown, false
}

// AllSlots returns every known slot in declaration order.
func AllSlots() []SlotID {
	out := make([]SlotID, 0, slotCount-1)
	for id := SlotAttack; id < slotCount; id++ {
		out = append(out, id)
	}
	return out
}
