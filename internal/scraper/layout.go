package scraper

// Icon path signatures of the Material Design icons the event page draws
// next to its location and time rows.
const (
	LocationIconPath = "M12,2C15.31,2 18,4.66 18,7.95C18,12.41 12,19 12,19C12,19 6,12.41 6,7.95C6,4.66 8.69,2 12,2M12,6A2,2 0 0,0 10,8A2,2 0 0,0 12,10A2,2 0 0,0 14,8A2,2 0 0,0 12,6M20,19C20,21.21 16.42,23 12,23C7.58,23 4,21.21 4,19C4,17.71 5.22,16.56 7.11,15.83L7.75,16.74C6.67,17.19 6,17.81 6,18.5C6,19.88 8.69,21 12,21C15.31,21 18,19.88 18,18.5C18,17.81 17.33,17.19 16.25,16.74L16.89,15.83C18.78,16.56 20,17.71 20,19Z"
	ClockIconPath    = "M12,20A8,8 0 0,0 20,12A8,8 0 0,0 12,4A8,8 0 0,0 4,12A8,8 0 0,0 12,20M12,2A10,10 0 0,1 22,12A10,10 0 0,1 12,22C6.47,22 2,17.5 2,12A10,10 0 0,1 12,2M12.5,7V12.25L17,14.92L16.25,16.15L11,13V7H12.5Z"
)

// Layout collects every markup cue the extractors rely on.
// Selectors are CSS selectors; icon fields are exact SVG path data.
type Layout struct {
	// Ready is the element whose presence means the page finished rendering
	Ready string

	Title       string
	Description string

	BracketContainer string
	BracketChip      string
	BracketName      string
	BracketFormat    string

	// Row is an icon+text line of the event details block
	Row     string
	RowLink string
	Icon    string

	LocationIcon string
	ClockIcon    string
}

// DefaultLayout matches the event page markup as currently served
var DefaultLayout = Layout{
	Ready: ".event-title",

	Title:       "span.event-title",
	Description: "p.information-description",

	BracketContainer: "div.battles",
	BracketChip:      "a.battle-chip",
	BracketName:      "p.title",
	BracketFormat:    "span.type",

	Row:     "p.paragraph",
	RowLink: "a[href]",
	Icon:    "span.v-icon.notranslate.icon.theme--light",

	LocationIcon: LocationIconPath,
	ClockIcon:    ClockIconPath,
}
