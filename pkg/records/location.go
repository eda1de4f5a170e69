package records

import "time"

// Location is a user-saved point of interest, usually a home or a
// property under consideration.
type Location struct {
	PrimaryIdentifier string `json:"id" bson:"primaryidentifier" groups:"basic,detailed"`

	Name    string `json:"name" bson:"name" groups:"basic,detailed"`
	Address string `json:"address" bson:"address,omitempty" groups:"basic,detailed"`

	Lat float64 `json:"lat" bson:"lat" groups:"basic,detailed"`
	Lng float64 `json:"lng" bson:"lng" groups:"basic,detailed"`

	CreationDateTime time.Time `json:"creation_date_time" bson:"creationdatetime" groups:"detailed"`
}
