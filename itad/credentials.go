// Copyright (c) 2025 BVK Chaitanya

package itad

import "fmt"

type Credentials struct {
	Key string `json:"key"`
}

func (v *Credentials) Check() error {
	if len(v.Key) == 0 {
		return fmt.Errorf("api key cannot be empty")
	}
	return nil
}
