package recognition

// StatKind selects a row of the skills panel.
type StatKind int

const (
	StatHP StatKind = iota
	StatMana
	StatCapacity
	StatSpeed
	StatFood
)

var statNames = [...]string{"hp", "mana", "capacity", "speed", "food"}

func (k StatKind) String() string {
	if k < 0 || int(k) >= len(statNames) {
		return "unknown"
	}
	return statNames[k]
}

func (k StatKind) valid() bool {
	return k >= 0 && int(k) < len(statNames)
}

// AllStats lists every stat in panel order.
func AllStats() []StatKind {
	return []StatKind{StatHP, StatMana, StatCapacity, StatSpeed, StatFood}
}

// StatusFlags are the conditions shown in the status bar.
type StatusFlags struct {
	ProtectionZone bool
	Hur            bool
	Poison         bool
}
