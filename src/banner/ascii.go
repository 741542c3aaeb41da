package banner

import "strings"

// Art is the startup logo (needs 48+ cols)
var Art = []string{
	` _               _                       _   `,
	`| |__   ___  ___| |_ ___  ___ ___  _   _| |_ `,
	"| '_ \\ / _ \\/ __| __/ __|/ __/ _ \\| | | | __|",
	`| | | | (_) \__ \ |_\__ \ (_| (_) | |_| | |_ `,
	`|_| |_|\___/|___/\__|___/\___\___/ \__,_|\__|`,
}

// ArtWidth returns the width of the widest art line
func ArtWidth(art []string) int {
	maxWidth := 0
	for _, line := range art {
		if len(line) > maxWidth {
			maxWidth = len(line)
		}
	}
	return maxWidth
}

// CenterArt centers art within width
func CenterArt(art []string, width int) []string {
	artWidth := ArtWidth(art)
	if artWidth >= width {
		return art
	}

	pad := strings.Repeat(" ", (width-artWidth)/2)
	centered := make([]string, len(art))
	for i, line := range art {
		centered[i] = strings.TrimRight(pad+line, " ")
	}
	return centered
}
