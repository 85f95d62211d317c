//go:build !darwin

package conversion

func stripQuarantine(string) error { return nil }
