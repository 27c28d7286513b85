package currency

// Money represents a monetary value stored in minor units.
type Money = int64
