package streamprops

// Category identifies which stream kind an entry applies to.
// The set is closed; it only affects the serialized label.
type Category int

const (
	CategoryAudioSink Category = iota
	CategoryInputAudio
	CategoryOutputAudio
)

var categoryLabels = [...]string{
	CategoryAudioSink:   "Audio/Sink",
	CategoryInputAudio:  "Input/Audio",
	CategoryOutputAudio: "Output/Audio",
}

// Label returns the label written to the state file.
func (c Category) Label() string {
	if c < 0 || int(c) >= len(categoryLabels) {
		return ""
	}
	return categoryLabels[c]
}

func (c Category) String() string {
	if l := c.Label(); l != "" {
		return l
	}
	return "Category(?)"
}

// ParseCategory maps a file label to its Category.
// Returns an *UnknownCategoryError if the label is not recognized.
func ParseCategory(label string) (Category, error) {
	for i, l := range categoryLabels {
		if l == label {
			return Category(i), nil
		}
	}
	return 0, &UnknownCategoryError{Label: label}
}
