package domain

import "io"

type CarType string

const (
	CarTypeClassic    CarType = "classic"
	CarTypeLuxury     CarType = "luxury"
	CarTypeElectrical CarType = "electrical"
)

func (t CarType) Valid() bool {
	switch t {
	case CarTypeClassic, CarTypeLuxury, CarTypeElectrical:
		return true
	}
	return false
}

type Availability string

const (
	InStock    Availability = "in_stock"
	OutOfStock Availability = "out_of_stock"
)

// Product mirrors a car record owned by the backend. The price travels as a
// decimal string and is never recomputed client-side.
type Product struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         string       `json:"price"`
	StockQuantity int          `json:"stock_quantity"`
	SKU           string       `json:"sku"`
	Category      int64        `json:"category"`
	Availability  Availability `json:"availability"`
	CarType       CarType      `json:"car_type"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`

	ImageURL      string `json:"image_url"`
	ImagePublicID string `json:"image_public_id"`

	KeyFeatures      []string `json:"key_features"`
	Engine           string   `json:"engine"`
	Power            string   `json:"power"`
	Torque           string   `json:"torque"`
	Transmission     string   `json:"transmission"`
	Acceleration0100 string   `json:"acceleration_0_100"`
	TopSpeed         string   `json:"top_speed"`
	FuelEconomy      string   `json:"fuel_economy"`
	Dimensions       string   `json:"dimensions"`
	WeightKG         float64  `json:"weight_kg"`
	WheelbaseMM      float64  `json:"wheelbase_mm"`
	FuelTankCapacity float64  `json:"fuel_tank_capacity"`
	TrunkCapacityL   float64  `json:"trunk_capacity_liters"`
}

// FileUpload is a pending binary attachment for a multipart request.
type FileUpload struct {
	Name   string
	Reader io.Reader
}

// CarDraft is the create-only input for a new listing. Validation happens
// before any request is issued.
type CarDraft struct {
	Name          string
	Description   string
	Price         string
	StockQuantity int
	CarType       CarType
	KeyFeatures   []string
	Engine        string
	Power         string
	Torque        string
	Transmission  string
	Image         *FileUpload
}
