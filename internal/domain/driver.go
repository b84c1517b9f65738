package domain

// A driver available for vehicle assignment on a scheduling date.
// LastPosition is nil when no recent position is known; such drivers sort
// last in proximity ordering.
type Driver struct {
	ID           string
	FirstName    string
	Surname      string
	Available    bool
	LicenseCode  string
	LastPosition *Coordinates
}

func (d *Driver) FullName() string {
	if d.FirstName == "" {
		return d.Surname
	}
	return d.FirstName + " " + d.Surname
}

// License tiers, highest first. A higher tier always satisfies a lower
// requirement.
var licenseRank = map[string]int{
	"CE": 4, // heavy articulated combinations
	"C":  3, // rigid heavy vehicles
	"C1": 2, // light rigid vehicles
	"B":  1, // vans and light vehicles
}

// Minimum license tier required per vehicle type. Unknown types conservatively
// require a rigid-heavy license.
var requiredLicense = map[string]string{
	"articulated": "CE",
	"rigid":       "C",
	"light_rigid": "C1",
	"van":         "B",
}

// HasRequiredLicense reports whether the driver's license qualifies them for
// the vehicle's class.
func (d *Driver) HasRequiredLicense(v *Vehicle) bool {
	required, ok := requiredLicense[v.VehicleType]
	if !ok {
		required = "C"
	}
	return licenseRank[d.LicenseCode] >= licenseRank[required]
}
