package dagpb

// SchemaVariant selects which revision of the dag-pb schema Decode targets.
//
// Two revisions exist in the wild. The canonical (newer) revision treats
// Name, Tsize and Data as genuinely optional and omits them when absent.
// The legacy (older) revision treats them as implicit always-present fields:
// an absent Name decodes to "", an absent Tsize to 0, and an absent Data to
// an empty byte sequence.
//
// Canonical is the default everywhere. Interoperating with a legacy consumer
// is an explicit per-call choice, never an implicit fallback, and Encode
// never emits legacy default values.
type SchemaVariant int

const (
	Canonical SchemaVariant = iota
	Legacy
)

func (v SchemaVariant) String() string {
	switch v {
	case Canonical:
		return "canonical"
	case Legacy:
		return "legacy"
	default:
		return "unknown"
	}
}
