package config

// Store is one physical storefront location a session can be bound to.
type Store struct {
	Name   string `yaml:"name"`
	Number string `yaml:"number"`
}

// Directory is the storefront location list loaded from the stores file.
type Directory struct {
	Stores []Store `yaml:"stores"`
}
