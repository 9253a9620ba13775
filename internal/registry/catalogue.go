package registry

// DefaultDefinitions returns the built-in biomarker catalogue.
func DefaultDefinitions() []Definition {
	return []Definition{
		// Thyroid panel
		{Key: "TSH", Unit: "mg/dL", Min: 0.4, Max: 4.0, Aliases: []string{"TSH", "tsh"}},
		{Key: "T3", Unit: "pg/ml", Min: 2.3, Max: 4.2, Aliases: []string{"T3", "t3", "triiodothyronine"}},
		{Key: "T4", Unit: "ng/dL", Min: 0.8, Max: 1.8, Aliases: []string{"T4", "t4", "thyroxine"}},

		// Vitamins
		{Key: "B12", Unit: "pg/dL", Min: 200, Max: 900, Aliases: []string{"B12", "b12", "vitamin B12", "cobalamin"}},
		{Key: "Folate", Unit: "ng/dL", Min: 2.0, Max: 5.0, Aliases: []string{"Folate", "folate", "folic acid"}},
		{Key: "Vitamin D", Unit: "ng/ml", Min: 30, Max: 50, Aliases: []string{"Vitamin D", "vitamin d", "25-OH Vitamin D", "calcitriol"}},

		// Copper metabolism
		{Key: "Ceruloplasmin", Unit: "mg/dL", Min: 20, Max: 40, Aliases: []string{"Ceruloplasmin", "ceruloplasmin", "serum ceruloplasmin"}},

		// CSF neurodegeneration markers
		{Key: "Alpha-synuclein", Unit: "ng/ml", Min: 1.2, Max: 1.8, Aliases: []string{"alpha-synuclein", "α-synuclein", "CSF alpha-synuclein"}},
		{Key: "Phospho-tau", Unit: "pg/ml", Min: 20, Max: 40, Aliases: []string{"phospho tau", "phospho-tau", "p-tau", "CSF phospho-tau"}},
		{Key: "NFL", Unit: "pg/ml", Min: 0, Max: 1000, Aliases: []string{"NFL", "neurofilament light", "CSF NFL"}},
	}
}

// Default returns a Registry over the built-in catalogue.
func Default() *Registry {
	return MustNew(DefaultDefinitions()...)
}
