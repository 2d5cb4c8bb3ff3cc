package models

import "github.com/zeu5/mdp-dp/mdp"

// Market regimes: trend (upward, downward, consolidating, price spike, price
// drop) crossed with trading volume (high, low).
var StockStates = []mdp.State{
	"UT_H", "UT_L",
	"DT_H", "DT_L",
	"C_H", "C_L",
	"PS_H", "PS_L",
	"PD_H", "PD_L",
}

var StockActions = []mdp.Action{"Buy", "Hold", "Sell"}

var stockRewards = [][]float64{
	{-50, 25, 75},
	{-25, 25, 50},
	{50, -25, -50},
	{25, -25, -25},
	{0, 0, 0},
	{0, 0, 0},
	{-75, 0, 100},
	{-50, 0, 75},
	{75, -50, -75},
	{50, -25, -50},
}

// [state][action][next state], rows follow StockStates
var stockTransitions = [][][]float64{
	{
		{0.4, 0.1, 0.05, 0.05, 0.1, 0.1, 0.1, 0.05, 0, 0.05},
		{0.5, 0.1, 0.05, 0, 0.15, 0.1, 0.05, 0, 0, 0.05},
		{0.3, 0.1, 0.1, 0.05, 0.2, 0.1, 0.05, 0, 0.05, 0.05},
	},
	{
		{0.2, 0.3, 0.1, 0.1, 0.15, 0.1, 0, 0, 0, 0.05},
		{0.25, 0.4, 0.05, 0.05, 0.15, 0.1, 0, 0, 0, 0},
		{0.1, 0.2, 0.15, 0.1, 0.2, 0.15, 0, 0, 0.05, 0.05},
	},
	{
		{0.1, 0.05, 0.3, 0.05, 0.1, 0.1, 0.05, 0, 0.2, 0.05},
		{0.05, 0, 0.5, 0.1, 0.15, 0.1, 0, 0, 0.05, 0.05},
		{0, 0, 0.4, 0.2, 0.15, 0.1, 0, 0, 0.1, 0.05},
	},
	{
		{0.15, 0.1, 0.1, 0.3, 0.1, 0.1, 0, 0, 0.1, 0.05},
		{0.05, 0.05, 0.1, 0.4, 0.15, 0.15, 0, 0, 0.05, 0.05},
		{0, 0, 0.05, 0.5, 0.2, 0.15, 0, 0, 0.05, 0.05},
	},
	{
		{0.15, 0.05, 0.05, 0.05, 0.3, 0.1, 0.1, 0.05, 0.1, 0.05},
		{0.1, 0.05, 0.05, 0.05, 0.4, 0.15, 0.1, 0.05, 0, 0.05},
		{0.05, 0.05, 0.1, 0.05, 0.35, 0.1, 0.05, 0.05, 0.1, 0.1},
	},
	{
		{0.1, 0.05, 0.05, 0.05, 0.15, 0.35, 0.1, 0.1, 0, 0.05},
		{0.05, 0.05, 0.05, 0.05, 0.15, 0.5, 0.05, 0.05, 0, 0.05},
		{0.05, 0.05, 0.05, 0.05, 0.15, 0.45, 0.05, 0.05, 0.05, 0.05},
	},
	{
		{0.1, 0.05, 0.2, 0.1, 0.1, 0.1, 0.1, 0.05, 0.1, 0.1},
		{0.05, 0.05, 0.25, 0.1, 0.1, 0.1, 0.05, 0.05, 0.15, 0.1},
		{0.05, 0.05, 0.2, 0.15, 0.15, 0.1, 0, 0, 0.2, 0.1},
	},
	{
		{0.05, 0.1, 0.15, 0.15, 0.15, 0.15, 0.05, 0.05, 0.05, 0.1},
		{0.05, 0.1, 0.1, 0.2, 0.15, 0.15, 0, 0.05, 0.1, 0.1},
		{0, 0.05, 0.2, 0.2, 0.2, 0.15, 0, 0, 0.1, 0.1},
	},
	{
		{0.2, 0.1, 0.05, 0, 0.1, 0.1, 0.1, 0.05, 0.2, 0.1},
		// PD_L lowered from 0.2 so the Hold row sums to one
		{0.1, 0.05, 0.1, 0.05, 0.15, 0.1, 0.05, 0, 0.3, 0.1},
		{0.05, 0, 0.15, 0.05, 0.15, 0.1, 0, 0, 0.4, 0.1},
	},
	{
		{0.15, 0.1, 0.05, 0.05, 0.1, 0.1, 0.05, 0.05, 0.15, 0.2},
		{0.05, 0.05, 0.1, 0.1, 0.15, 0.15, 0, 0, 0.1, 0.3},
		{0, 0, 0.1, 0.15, 0.2, 0.15, 0, 0, 0.15, 0.25},
	},
}

// StockTrader is a continuing trading task without terminal states, so the
// discount must stay below one.
func StockTrader(gamma float64) (*mdp.Model, error) {
	return mdp.FromMatrices("stock-trader", StockStates, StockActions, stockTransitions, stockRewards, gamma)
}
