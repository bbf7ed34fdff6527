package normalize

// wsEntity is the union of the WS/2 JSON shapes of all entity kinds. Only
// the members read by the cleaners are declared.
type wsEntity struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Title          string `json:"title"`
	SortName       string `json:"sort-name"`
	Disambiguation string `json:"disambiguation"`
	Type           string `json:"type"`
	Score          int    `json:"score"`

	ArtistCredit []wsCredit   `json:"artist-credit"`
	LifeSpan     *wsLifeSpan  `json:"life-span"`
	Relations    []wsRelation `json:"relations"`

	// artist, label, place
	Gender    string    `json:"gender"`
	Area      *wsEntity `json:"area"`
	BeginArea *wsEntity `json:"begin-area"`
	EndArea   *wsEntity `json:"end-area"`
	LabelCode *int      `json:"label-code"`
	Address   string    `json:"address"`

	// area
	ISO1 []string `json:"iso-3166-1-codes"`
	ISO2 []string `json:"iso-3166-2-codes"`
	ISO3 []string `json:"iso-3166-3-codes"`

	// event, instrument
	Time        string `json:"time"`
	Description string `json:"description"`

	// recording
	Length   *int64     `json:"length"`
	Video    bool       `json:"video"`
	Releases []wsEntity `json:"releases"`

	// release, release group
	Media              []wsMedium       `json:"media"`
	ReleaseEvents      []wsReleaseEvent `json:"release-events"`
	LabelInfo          []wsLabelInfo    `json:"label-info"`
	Barcode            string           `json:"barcode"`
	TextRepresentation *wsTextRepr      `json:"text-representation"`
	ReleaseGroup       *wsEntity        `json:"release-group"`
	Status             string           `json:"status"`
	PrimaryType        string           `json:"primary-type"`
	SecondaryTypes     []string         `json:"secondary-types"`

	// work
	Languages []string `json:"languages"`
}

type wsCredit struct {
	Name       string    `json:"name"`
	JoinPhrase string    `json:"joinphrase"`
	Artist     *wsEntity `json:"artist"`
}

type wsLifeSpan struct {
	Begin string `json:"begin"`
	End   string `json:"end"`
	Ended bool   `json:"ended"`
}

type wsRelation struct {
	Type   string    `json:"type"`
	Artist *wsEntity `json:"artist"`
	Place  *wsEntity `json:"place"`
	Area   *wsEntity `json:"area"`
}

type wsMedium struct {
	Position    int    `json:"position"`
	Format      string `json:"format"`
	TrackCount  int    `json:"track-count"`
	TrackOffset *int   `json:"track-offset"`
}

type wsReleaseEvent struct {
	Date string    `json:"date"`
	Area *wsEntity `json:"area"`
}

type wsLabelInfo struct {
	CatalogNumber string    `json:"catalog-number"`
	Label         *wsEntity `json:"label"`
}

type wsTextRepr struct {
	Language string `json:"language"`
	Script   string `json:"script"`
}
