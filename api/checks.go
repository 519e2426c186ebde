// Copyright (c) 2025 BVK Chaitanya

package api

import "fmt"

func (r *WatchAddRequest) Check() error {
	if len(r.Name) == 0 {
		return fmt.Errorf("game name cannot be empty")
	}
	if len(r.Type) == 0 {
		return fmt.Errorf("watch type cannot be empty")
	}
	if len(r.Schedule) == 0 {
		return fmt.Errorf("schedule cannot be empty")
	}
	return nil
}

func (r *WatchUpdateRequest) Check() error {
	if len(r.ID) == 0 {
		return fmt.Errorf("watch id cannot be empty")
	}
	if r.Name == nil && r.Type == nil && r.Schedule == nil && r.Country == nil &&
		r.TargetValue == nil && !r.ClearTargetValue && r.Platform == nil {
		return fmt.Errorf("at least one field must be updated")
	}
	return nil
}

func (r *WatchDeleteRequest) Check() error {
	if len(r.IDOrName) == 0 {
		return fmt.Errorf("watch id or name cannot be empty")
	}
	return nil
}

func (r *WatchGetRequest) Check() error {
	if len(r.IDOrName) == 0 {
		return fmt.Errorf("watch id or name cannot be empty")
	}
	return nil
}

func (r *WatchScheduleRequest) Check() error {
	if len(r.IDOrName) == 0 {
		return fmt.Errorf("watch id or name cannot be empty")
	}
	return nil
}

func (r *PriceLowestRequest) Check() error {
	if len(r.Name) == 0 {
		return fmt.Errorf("game name cannot be empty")
	}
	return nil
}

func (r *PriceAllTimeLowRequest) Check() error {
	if len(r.Name) == 0 {
		return fmt.Errorf("game name cannot be empty")
	}
	return nil
}

func (r *PriceDealsRequest) Check() error {
	if len(r.Name) == 0 {
		return fmt.Errorf("game name cannot be empty")
	}
	return nil
}
