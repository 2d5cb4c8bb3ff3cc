package models

import "github.com/zeu5/mdp-dp/mdp"

const (
	ClearRoad          mdp.State = "Clear Road"
	VehicleAhead       mdp.State = "Vehicle Ahead"
	PedestrianCrossing mdp.State = "Pedestrian Crossing"
	SchoolZone         mdp.State = "In School Zone"
	ObstacleAhead      mdp.State = "Obstacle Ahead"
	RedLight           mdp.State = "Traffic Light Red"
	GreenLight         mdp.State = "Traffic Light Green"
	Destination        mdp.State = "Destination Reached"
	Accident           mdp.State = "Accident"
)

var DrivingStates = []mdp.State{
	ClearRoad, VehicleAhead, PedestrianCrossing, SchoolZone, ObstacleAhead,
	RedLight, GreenLight, Destination, Accident,
}

var DrivingActions = []mdp.Action{
	"Maintain Speed", "Accelerate", "Decelerate", "Stop", "Change Lane", "Steer Around",
}

var drivingRewards = [][]float64{
	{10, 5, -5, -10, -5, -10},
	{-10, -50, 5, 1, 10, -50},
	{-100, -100, 5, 10, -50, -100},
	{-10, -50, 10, 1, -5, -10},
	{-100, -100, 5, 5, 10, 10},
	{-50, -50, 5, 10, -10, -10},
	{10, 5, -5, -10, 1, -10},
	{0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0},
}

var drivingTransitions = [][][]float64{
	// Clear Road
	{
		{0.7, 0.15, 0.02, 0, 0.03, 0.05, 0, 0.05, 0},
		{0.6, 0.25, 0.02, 0, 0.03, 0.05, 0, 0.05, 0},
		{0.8, 0.1, 0.01, 0, 0.02, 0.05, 0, 0.02, 0},
		{0.85, 0.05, 0.01, 0, 0.02, 0.05, 0, 0.02, 0},
		{0.8, 0.1, 0, 0, 0, 0, 0, 0, 0.1},
		{0.8, 0.05, 0, 0, 0, 0, 0, 0, 0.15},
	},
	// Vehicle Ahead
	{
		{0, 0.8, 0, 0, 0, 0, 0, 0, 0.2},
		{0, 0.6, 0, 0, 0, 0, 0, 0, 0.4},
		{0.1, 0.85, 0, 0, 0, 0, 0, 0.05, 0},
		{0.1, 0.85, 0, 0, 0, 0, 0, 0.05, 0},
		{0.8, 0.1, 0, 0, 0, 0, 0, 0.05, 0.05},
		{0, 0.4, 0, 0, 0, 0, 0, 0, 0.6},
	},
	// Pedestrian Crossing
	{
		{0, 0, 0.5, 0, 0, 0, 0, 0, 0.5},
		{0, 0, 0.1, 0, 0, 0, 0, 0, 0.9},
		{0.4, 0, 0.6, 0, 0, 0, 0, 0, 0},
		{0.6, 0, 0.4, 0, 0, 0, 0, 0, 0},
		{0, 0, 0.4, 0, 0, 0, 0, 0, 0.6},
		{0, 0, 0.2, 0, 0, 0, 0, 0, 0.8},
	},
	// In School Zone
	{
		{0, 0, 0.2, 0.7, 0, 0, 0, 0, 0.1},
		{0, 0, 0.3, 0.3, 0, 0, 0, 0, 0.4},
		{0.3, 0, 0.1, 0.6, 0, 0, 0, 0, 0},
		{0.1, 0, 0.05, 0.85, 0, 0, 0, 0, 0},
		{0, 0, 0.2, 0.6, 0, 0, 0, 0, 0.2},
		{0, 0, 0.2, 0.6, 0, 0, 0, 0, 0.2},
	},
	// Obstacle Ahead
	{
		{0, 0, 0, 0, 0.3, 0, 0, 0, 0.7},
		{0, 0, 0, 0, 0.1, 0, 0, 0, 0.9},
		{0.1, 0, 0, 0, 0.85, 0, 0, 0.05, 0},
		{0.1, 0, 0, 0, 0.85, 0, 0, 0.05, 0},
		{0.8, 0, 0, 0, 0.1, 0, 0, 0.05, 0.05},
		{0.8, 0, 0, 0, 0.1, 0, 0, 0.05, 0.05},
	},
	// Traffic Light Red
	{
		{0, 0, 0, 0, 0, 0.5, 0, 0, 0.5},
		{0, 0, 0, 0, 0, 0.2, 0, 0, 0.8},
		{0, 0, 0, 0, 0, 0.85, 0.15, 0, 0},
		{0, 0, 0, 0, 0, 0.7, 0.3, 0, 0},
		{0, 0, 0, 0, 0, 0.4, 0, 0, 0.6},
		{0, 0, 0, 0, 0, 0.4, 0, 0, 0.6},
	},
	// Traffic Light Green
	{
		{0.8, 0.1, 0, 0, 0, 0, 0, 0.1, 0},
		{0.8, 0.1, 0, 0, 0, 0, 0, 0.1, 0},
		{0.1, 0, 0, 0, 0, 0, 0.8, 0, 0.1},
		{0, 0, 0, 0, 0, 0.1, 0.8, 0, 0.1},
		{0.7, 0.1, 0, 0, 0, 0, 0.1, 0.1, 0},
		{0.7, 0.1, 0, 0, 0, 0, 0.1, 0.1, 0},
	},
	// Destination Reached
	{
		{0, 0, 0, 0, 0, 0, 0, 1, 0},
		{0, 0, 0, 0, 0, 0, 0, 1, 0},
		{0, 0, 0, 0, 0, 0, 0, 1, 0},
		{0, 0, 0, 0, 0, 0, 0, 1, 0},
		{0, 0, 0, 0, 0, 0, 0, 1, 0},
		{0, 0, 0, 0, 0, 0, 0, 1, 0},
	},
	// Accident
	{
		{0, 0, 0, 0, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0, 0, 0, 1},
	},
}

// SelfDrivingCar is an episodic driving task that ends in Destination or
// Accident. Both are absorbing, so gamma = 1 is accepted.
func SelfDrivingCar(gamma float64) (*mdp.Model, error) {
	return mdp.FromMatrices("self-driving-car", DrivingStates, DrivingActions, drivingTransitions, drivingRewards, gamma)
}
