package subscription

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/* Seed loader for subscriptions.yaml
 * Lets deployments pre-register outbound targets before the API is used,
 * since the registry itself is in-memory and resets on restart
 */

// SeedFile represents the structure of subscriptions.yaml
type SeedFile struct {
	Subscriptions []SeedSubscription `yaml:"subscriptions"`
}

// SeedSubscription is a single pre-registered subscription in the YAML file
type SeedSubscription struct {
	URL    string   `yaml:"url"`
	Events []string `yaml:"events"`
	Secret string   `yaml:"secret"`
}

// LoadSeedFile reads subscriptions.yaml and registers its entries.
// Entries without a secret get a generated one; generated secrets are lost on
// restart, so targets that verify signatures should pin one in the file.
func LoadSeedFile(path string, registry *Registry) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading subscriptions file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("parsing subscriptions YAML: %w", err)
	}

	for i, entry := range seed.Subscriptions {
		events := make([]EventType, 0, len(entry.Events))
		for _, e := range entry.Events {
			events = append(events, EventType(e))
		}

		if entry.Secret == "" {
			if _, err := registry.Create(entry.URL, events); err != nil {
				return 0, fmt.Errorf("registering subscription %d: %w", i, err)
			}
			continue
		}

		sub := Subscription{
			URL:    entry.URL,
			Events: events,
			Secret: entry.Secret,
			Active: true,
		}
		if err := registry.Add(sub); err != nil {
			return 0, fmt.Errorf("registering subscription %d: %w", i, err)
		}
	}

	return len(seed.Subscriptions), nil
}
