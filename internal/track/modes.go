package track

// modeLabels maps target state mode characters to display labels
var modeLabels = map[rune]string{
	'U': "AP",
	'/': "ALT",
	'M': "VNAV",
	'F': "LNAV",
	'P': "APP",
	'T': "TCAS",
	'C': "HDG",
}

// ModeLabel returns the label for a mode character; unknown characters pass through
func ModeLabel(c rune) string {
	if label, ok := modeLabels[c]; ok {
		return label
	}
	return string(c)
}

// ModeLabels maps every character of chars to its label
func ModeLabels(chars string) []string {
	labels := make([]string, 0, len(chars))
	for _, c := range chars {
		labels = append(labels, ModeLabel(c))
	}
	return labels
}
