package taxonomy

// fallback holds the embedded defect-coding tables used when the taxonomy
// document is unreachable. Codes follow the usual condition-coding scheme:
// group letter plus descriptor letter.
var fallback = map[string]map[string][]Descriptor{
	"Structural": {
		"Crack (C)": {
			{Name: "Circumferential (C)", Code: "CC"},
			{Name: "Longitudinal (L)", Code: "CL"},
			{Name: "Multiple (M)", Code: "CM"},
			{Name: "Spiral (S)", Code: "CS"},
		},
		"Fracture (F)": {
			{Name: "Circumferential (C)", Code: "FC"},
			{Name: "Longitudinal (L)", Code: "FL"},
			{Name: "Multiple (M)", Code: "FM"},
			{Name: "Spiral (S)", Code: "FS"},
		},
		"Broken (B)": {
			{Name: "Soil Visible (SV)", Code: "BSV"},
			{Name: "Void Visible (VV)", Code: "BVV"},
		},
		"Deformed (D)": {
			{Name: "Horizontal (H)", Code: "DH"},
			{Name: "Vertical (V)", Code: "DV"},
		},
		"Hole (H)": {
			{Name: "Soil Visible (SV)", Code: "HSV"},
			{Name: "Void Visible (VV)", Code: "HVV"},
		},
	},
	"Operational & Maintenance": {
		"Deposits Attached (DA)": {
			{Name: "Encrustation (E)", Code: "DAE"},
			{Name: "Grease (GS)", Code: "DAGS"},
			{Name: "Ragging (R)", Code: "DAR"},
			{Name: "Other (Z)", Code: "DAZ"},
		},
		"Roots (R)": {
			{Name: "Fine (F)", Code: "RF"},
			{Name: "Medium (M)", Code: "RM"},
			{Name: "Ball (B)", Code: "RB"},
			{Name: "Tap (T)", Code: "RT"},
		},
		"Infiltration (I)": {
			{Name: "Weeper (W)", Code: "IW"},
			{Name: "Dripper (D)", Code: "ID"},
			{Name: "Runner (R)", Code: "IR"},
			{Name: "Gusher (G)", Code: "IG"},
		},
	},
	"Construction": {
		"Tap (T)": {
			{Name: "Factory (F)", Code: "TF"},
			{Name: "Break-in (B)", Code: "TB"},
			{Name: "Saddle (S)", Code: "TS"},
		},
		"Junction (J)": {
			{Name: "Active (A)", Code: "JA"},
			{Name: "Capped (C)", Code: "JC"},
		},
	},
}
