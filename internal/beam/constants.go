package beam

// Physical constants (CODATA 2018, SI units).
const (
	ElectronMass     = 9.1093837015e-31 // kg
	SpeedOfLight     = 299792458.0      // m/s
	ElementaryCharge = 1.602176634e-19  // C

	// RestEnergy is the electron rest energy in eV. Field samples are in V/m,
	// so Ez/RestEnergy is dγ/dz in 1/m.
	RestEnergy = 510.99895000e3
)

// ChargeToMass is q/m for the electron in C/kg.
const ChargeToMass = ElementaryCharge / ElectronMass
