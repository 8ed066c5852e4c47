package core

import "errors"

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrUnknownTerrain     = errors.New("unknown terrain")
	ErrNotVillage         = errors.New("tile is not a village")
	ErrUnknownSide        = errors.New("unknown side")
	ErrCellOccupied       = errors.New("cell already occupied")
	ErrUnitNotFound       = errors.New("unit not found")
	ErrMapSize            = errors.New("map rows have inconsistent width")
)
