package core

// Game tuning constants.
const (
	ShieldMinDamage       = 0.15
	ShieldDamageReduction = 0.75
	HardenedMaxDamage     = 1.2
	PlatingHealthBonus    = 4.0
	RegenAmount           = 0.2

	IronEffectRounds = 5
	IronHealthCost   = 2.0

	WeakenedRounds     = 5
	WeakenedMultiplier = 0.25

	EquipWakeDelay = 5
	PowerWakeDelay = 5

	OpBudgetBase    = 3000
	OpBudgetPerCore = 3000

	TransportCapacity = 16
	DummyLifetime     = 100
	MessageQueueLimit = 100

	DefaultSeed      = 6370
	DefaultMaxRounds = 10000
	MapOriginBound   = 32000
	MaxMapDimension  = 100
)

// Fuel charged per action before validation.
const (
	CostMove      = 1
	CostTurn      = 1
	CostSense     = 25
	CostAttack    = 1
	CostBuild     = 1
	CostPower     = 1
	CostTransport = 1
	CostBroadcast = 5
	CostReceive   = 1
	CostMine      = 1
	CostJump      = 1
	CostIron      = 1
)
