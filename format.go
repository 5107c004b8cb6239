package redecred

import "strings"

// FormatProviders formats providers for terminal display, one block per
// provider, each block closed by a "---" line.
func FormatProviders(providers []*Provider) string {
	if len(providers) == 0 {
		return ""
	}

	var b strings.Builder
	for _, p := range providers {
		b.WriteString("**" + p.Name + "**\n")
		b.WriteString("Phone: " + p.Phone + "\n")
		b.WriteString("Address: " + p.Address + "\n")
		b.WriteString("Specialties: " + p.Specialties + "\n")
		b.WriteString("---\n")
	}
	return b.String()
}
