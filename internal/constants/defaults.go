package constants

const (
	// Defaults substituted for missing optional habit values
	DefaultHabitColor  = "#4A90D9"
	DefaultHabitIcon   = ""
	DefaultDetailKind  = "general"
	DefaultDetailsText = ""

	// Workout intensity bounds
	MinWorkoutIntensity = 1
	MaxWorkoutIntensity = 5

	// Progress checkpoints for encoding, one per entity kind
	ProgressEncodeCollections    = 0.2
	ProgressEncodeTags           = 0.4
	ProgressEncodeHabits         = 0.6
	ProgressEncodeHabitEntries   = 0.8
	ProgressEncodeJournalEntries = 1.0

	// Progress checkpoints for restore/import
	ProgressImportReset          = 0.1
	ProgressImportCollections    = 0.2
	ProgressImportTags           = 0.3
	ProgressImportHabits         = 0.45
	ProgressImportHabitEntries   = 0.65
	ProgressImportJournalEntries = 0.85
	ProgressImportCommitted      = 1.0
)
