package recognition

// Anchor and icon template keys.
const (
	AnchorSkills      = "anchors/skills"
	AnchorCooldownBar = "anchors/cooldown_bar"
	AnchorActionBar   = "anchors/action_bar_left_arrows"
	AnchorStop        = "anchors/stop"

	IconProtectionZone = "status/pz"
	IconHur            = "status/hur"
	IconPoison         = "status/poison"

	// Drawn inside an action bar slot frame.
	MarkerEquipped    = "slots/equipped"
	MarkerUnavailable = "slots/unavailable"
)

// Skills panel, relative to the skills icon. Rows start below the icon and
// values are right-aligned on statValueRight.
const (
	statRowGap        = 4
	statRowStep       = 14
	statValueRight    = 150
	statMaxDigits     = 6
	digitCellGap      = 1
	staminaColonWidth = 3
	staminaRow        = 5

	defaultDigitCellWidth  = 5
	defaultDigitCellHeight = 7
)

// Cooldown bar, relative to the bar anchor. Slot n sits at index n-1.
const (
	cooldownBarGap   = 2
	cooldownSlotStep = 24
)

// Action bar, relative to the left arrows.
const (
	actionSlotWidth   = 34
	actionSlotHeight  = 34
	actionSlotSpacing = 2
	slotDigitsTop     = 24
	slotDigitsBottom  = 32
	slotDigitsLeft    = 3
	slotDigitsRight   = 33
)

// Status bar, relative to the stop icon.
const (
	statusBarLeft   = 117
	statusBarRight  = 11
	statusBarTop    = 1
	statusBarBottom = 12
)
