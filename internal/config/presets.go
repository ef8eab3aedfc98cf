package config

var Presets = map[string]map[string]*Config{
	"solar": {
		"quiet": {
			Scenario: "solar", BodyCount: 0, DeltaTime: 1e13, CollisionsEnabled: true,
			Seed: 1, Ticks: 2000,
		},
		"default": {
			Scenario: "solar", BodyCount: 20000, DeltaTime: 1e13, CollisionsEnabled: true,
			Seed: 1, Ticks: 500,
		},
		"crowded": {
			Scenario: "solar", BodyCount: 200000, DeltaTime: 5e13, CollisionsEnabled: true,
			Seed: 1, Ticks: 200, RebalanceInterval: 50,
		},
	},
	"belt": {
		"thin": {
			Scenario: "belt", BodyCount: 5000, DeltaTime: 1e13, CollisionsEnabled: true,
			Seed: 7, Ticks: 500,
		},
		"dense": {
			Scenario: "belt", BodyCount: 100000, DeltaTime: 2e13, CollisionsEnabled: true,
			Seed: 7, Ticks: 300, RebalanceInterval: 25,
		},
	},
	"catalog": {
		"known": {
			Scenario: "catalog", BodyCount: 1000, DeltaTime: 1e13, CollisionsEnabled: true,
			UseKnownCatalog: true, Ticks: 500,
		},
		"comets": {
			Scenario: "catalog", BodyCount: 0, DeltaTime: 1e13, CollisionsEnabled: false,
			ShowComets: true, Ticks: 1000,
		},
	},
	"twobody": {
		"orbit": {
			Scenario: "twobody", DeltaTime: 1e12, CollisionsEnabled: false, Ticks: 5000,
		},
	},
	"blackhole": {
		"flyby": {
			Scenario: "blackhole", BodyCount: 20000, DeltaTime: 1e13, CollisionsEnabled: true,
			Seed: 3, Ticks: 1000,
		},
		"feast": {
			Scenario: "blackhole", BodyCount: 50000, DeltaTime: 5e13, CollisionsEnabled: true,
			Seed: 3, Ticks: 500,
		},
	},
}

func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	return names
}
