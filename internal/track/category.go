package track

import "squitterlog/internal/adsb"

// Category groups messages whose repetition rate is analysed together
type Category int

const (
	CategoryAirbornePosition Category = iota
	CategorySurfacePosition
	CategoryIdentification
	CategoryVelocity
	CategoryStatus
	CategoryTargetState
	CategoryOperationStatus
	CategoryAcquisition

	numCategories
)

var categoryNames = [numCategories]string{
	"airborne-position",
	"surface-position",
	"identification",
	"velocity",
	"status",
	"target-state",
	"operation-status",
	"acquisition",
}

// Transponder register (BDS) or downlink format each category is carried in
var categoryRegisters = [numCategories]string{
	"REG05",
	"REG06",
	"REG08",
	"REG09",
	"REG61",
	"REG62",
	"REG65",
	"DF11",
}

// Categories returns all categories in display order
func Categories() []Category {
	cats := make([]Category, 0, numCategories)
	for c := Category(0); c < numCategories; c++ {
		cats = append(cats, c)
	}
	return cats
}

// String returns the category name
func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Register returns the register label of the category
func (c Category) Register() string {
	if c < 0 || c >= numCategories {
		return ""
	}
	return categoryRegisters[c]
}

// CategoryForTypeCode maps an extended squitter type code to its timing category
func CategoryForTypeCode(tc int) (Category, bool) {
	switch {
	case tc >= adsb.TCAirbornePositionMin && tc <= adsb.TCAirbornePositionMax,
		tc >= adsb.TCGNSSPositionMin && tc <= adsb.TCGNSSPositionMax:
		return CategoryAirbornePosition, true
	case tc >= adsb.TCSurfacePositionMin && tc <= adsb.TCSurfacePositionMax:
		return CategorySurfacePosition, true
	case tc >= adsb.TCIdentificationMin && tc <= adsb.TCIdentificationMax:
		return CategoryIdentification, true
	case tc == adsb.TCAirborneVelocity:
		return CategoryVelocity, true
	case tc == adsb.TCAircraftStatus:
		return CategoryStatus, true
	case tc == adsb.TCTargetState:
		return CategoryTargetState, true
	case tc == adsb.TCOperationStatus:
		return CategoryOperationStatus, true
	}
	return 0, false
}
