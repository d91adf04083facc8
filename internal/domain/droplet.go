package domain

import "time"

// Droplet is a cloud virtual machine as reported by a provider's live
// inventory. Nothing about it is cached between requests.
type Droplet struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	PublicIPv4 string    `json:"public_ipv4,omitempty"`
	Region     string    `json:"region"`
	Size       string    `json:"size"`
	Image      string    `json:"image,omitempty"`
	Provider   string    `json:"provider"`
}

// CreateDropletOpts holds the parameters for creating a droplet.
type CreateDropletOpts struct {
	Name              string
	Region            string
	Size              string
	Image             string
	PrivateNetworking bool
	UserData          string
}
