package domain

type Currency struct {
	Code string
	Name string
}
