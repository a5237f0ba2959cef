package models

// ServiceCategory is a bookable service grouping (e.g. Haircut, Keratin
// Treatment) with an estimated duration and price note, as opposed to an
// individual priced line item.
type ServiceCategory struct {
	ID              string   `bson:"id" json:"id"`
	Slug            string   `bson:"slug" json:"slug"`               // e.g. "keratin-treatment"
	Name            string   `bson:"name" json:"name"`               // e.g. "Keratin Treatment"
	ShortName       string   `bson:"short_name,omitempty" json:"shortName,omitempty"`
	Keywords        []string `bson:"keywords" json:"keywords"`       // lower-case match vocabulary
	DurationMinutes int      `bson:"duration_minutes" json:"durationMinutes"`
	PriceNote       string   `bson:"price_note,omitempty" json:"priceNote,omitempty"` // e.g. "from $120"
}
