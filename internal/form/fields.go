package form

// Input describes one input of the prediction form.
type Input struct {
	Name        string
	Label       string
	Placeholder string
	Options     []string // Allowed values, shown as a hint (empty = free text)
}

// Standard prediction form field names
const (
	FieldTariff = "tariff"
	FieldLoad   = "load"
	FieldUnits  = "units"
)

// TariffCategories are the tariff categories offered by the prediction form.
var TariffCategories = []string{"domestic", "commercial", "industrial", "agricultural"}

// PredictionForm is the ordered set of inputs on the prediction form.
var PredictionForm = []Input{
	{
		Name:        FieldTariff,
		Label:       "Tariff category",
		Placeholder: "domestic",
		Options:     TariffCategories,
	},
	{
		Name:        FieldLoad,
		Label:       "Sanctioned load (kW)",
		Placeholder: "2",
	},
	{
		Name:        FieldUnits,
		Label:       "Units consumed (kWh)",
		Placeholder: "210",
	},
}

// Lookup returns the form input named name, or false if the form has no such input.
func Lookup(name string) (Input, bool) {
	for _, s := range PredictionForm {
		if s.Name == name {
			return s, true
		}
	}
	return Input{}, false
}
