package metadata

// RawLink is one online resource declared in a record's distribution info.
type RawLink struct {
	URL      string `json:"url" yaml:"url"`
	Protocol string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
}

// maxEnvelopeDepth bounds how far Record descends through wrapper elements.
const maxEnvelopeDepth = 4

// Record locates the MD_Metadata content inside doc. The document may be the
// record itself, an MD_Metadata wrapper, or a single-element envelope such as
// a CSW GetRecordByIdResponse.
func Record(doc any) map[string]any {
	return findRecord(doc, 0)
}

func findRecord(v any, depth int) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		list, isList := v.([]any)
		if !isList {
			return nil
		}
		for _, it := range list {
			if _, nested := it.([]any); nested {
				continue
			}
			if r := findRecord(it, depth); r != nil {
				return r
			}
		}
		return nil
	}
	if Get(m, "distributionInfo") != nil || Get(m, "fileIdentifier") != nil {
		return m
	}
	if depth >= maxEnvelopeDepth {
		return nil
	}
	if md := Get(m, "MD_Metadata"); md != nil {
		return findRecord(md, depth+1)
	}
	var only any
	elements := 0
	for k, child := range m {
		if len(k) > 0 && (k[0] == '@' || k == textKey) {
			continue
		}
		elements++
		only = child
	}
	if elements == 1 {
		return findRecord(only, depth+1)
	}
	return nil
}

// FileIdentifier returns the record's gmd:fileIdentifier, or "".
func FileIdentifier(doc any) string {
	return AsText(Get(Record(doc), "fileIdentifier"))
}

// ExtractLinks walks distributionInfo → MD_Distribution → transferOptions →
// MD_DigitalTransferOptions → onLine and returns every online resource that
// carries a URL, in document order. Missing branches yield no links.
func ExtractLinks(doc any) []RawLink {
	rec := Record(doc)
	if rec == nil {
		return nil
	}
	var links []RawLink
	onLines := Path(rec, "distributionInfo", "MD_Distribution", "transferOptions", "MD_DigitalTransferOptions", "onLine")
	for _, ol := range onLines {
		res := ol
		if wrapped := Get(ol, "CI_OnlineResource"); wrapped != nil {
			res = wrapped
		}
		for _, r := range AsList(res) {
			link := RawLink{
				URL:      linkage(Get(r, "linkage")),
				Protocol: AsText(Get(r, "protocol")),
				Name:     AsText(Get(r, "name")),
			}
			if link.URL == "" {
				continue
			}
			links = append(links, link)
		}
	}
	return links
}

func linkage(v any) string {
	if u := AsText(Get(v, "URL")); u != "" {
		return u
	}
	return AsText(v)
}
