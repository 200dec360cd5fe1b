package classifier

const (
	// DigitTemplatePrefix is followed by a single digit 0-9.
	DigitTemplatePrefix = "digits/digit_"

	// CooldownTemplatePrefix is followed by the slot name with spaces as underscores.
	CooldownTemplatePrefix = "cooldowns/"
)
