package jobs

// FieldKind identifies which coercion produced a correction.
type FieldKind string

// Field kinds.
const (
	KindNumeric FieldKind = "numeric"
	KindDate    FieldKind = "date"
)

// Correction documents one field value the sanitizer replaced with a
// default. Corrections are immutable once created; the ordered sequence
// for a run forms the correction report.
type Correction struct {
	Ordinal   int       `yaml:"ordinal"`
	WO        string    `yaml:"wo"`
	Customer  string    `yaml:"customer"`
	Field     string    `yaml:"field"`
	Raw       string    `yaml:"raw"`
	Corrected string    `yaml:"corrected"`
	Kind      FieldKind `yaml:"kind"`
}
