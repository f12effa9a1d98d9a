package extractor

// Source tags recorded in VariantInfo.Source, in merge order.
const (
	sourceLDJSON   = "ld+json"
	sourceMeta     = "og/meta"
	sourceEmbedded = "embedded"
	sourceDOM      = "dom"
)

// variantSignal is the partial record one signal parser contributes. Parsers
// are independent and order-insensitive; the merge engine owns precedence.
type variantSignal struct {
	source     string
	attributes map[string]string
	variantKey string
	options    map[string][]string
}

func newVariantSignal(source string) *variantSignal {
	return &variantSignal{
		source:     source,
		attributes: make(map[string]string),
	}
}

// empty reports whether the parser found nothing worth merging.
func (s *variantSignal) empty() bool {
	return s == nil || (len(s.attributes) == 0 && s.variantKey == "" && len(s.options) == 0)
}

func (s *variantSignal) setAttr(name, value string) {
	name = normalizeAttrName(name)
	if name == "" || value == "" {
		return
	}
	if _, ok := s.attributes[name]; !ok {
		s.attributes[name] = value
	}
}
