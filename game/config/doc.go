// Package config loads game variants from a directory of JSON files.
//
// A variant sets the money rules (starting cash, pass-GO bonus, bail,
// taxes) and the seats at the table: at most one human plus automated
// seats, each with a strategy tag.
//
// Configuration Format:
//
//	{
//	  "name": "classic",
//	  "description": "Classic rules",
//	  "starting_money": 1500,
//	  "pass_go_amount": 200,
//	  "bail_amount": 50,
//	  "income_tax_rate": 0.10,
//	  "income_tax_flat": 200,
//	  "luxury_tax": 75,
//	  "seats": [
//	    {"name": "You", "human": true},
//	    {"name": "Ada", "strategy": "aggressive"}
//	  ]
//	}
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("quick")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// classic.json is the default when present. Otherwise the first valid file
// is used, and an empty directory falls back to the built-in classic rules.
package config
