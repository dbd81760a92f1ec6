package routes

const (
	Health = "/health"

	Warehouses          = "/api/v1/warehouses"
	Warehouse           = "/api/v1/warehouses/{warehouseID}"
	WarehouseUsage      = "/api/v1/warehouses/{warehouseID}/usage"
	WarehouseSpaces     = "/api/v1/warehouses/{warehouseID}/spaces"
	WarehouseFreeSpaces = "/api/v1/warehouses/{warehouseID}/spaces/free"

	Space          = "/api/v1/spaces/{spaceID}"
	SpaceUsage     = "/api/v1/spaces/{spaceID}/usage"
	SpaceProducts  = "/api/v1/spaces/{spaceID}/products"
	SpaceMovements = "/api/v1/spaces/{spaceID}/movements"
	SpaceCheckIn   = "/api/v1/spaces/{spaceID}/check-in"
	SpaceCheckOut  = "/api/v1/spaces/{spaceID}/check-out"

	Contracts          = "/api/v1/contracts"
	Contract           = "/api/v1/contracts/{contractID}"
	ContractClientSign = "/api/v1/contracts/{contractID}/client-signature"
	ContractAgentSign  = "/api/v1/contracts/{contractID}/agent-signature"
	ContractCancel     = "/api/v1/contracts/{contractID}/cancel"

	ClientContracts = "/api/v1/clients/{clientID}/contracts"
	ClientProducts  = "/api/v1/clients/{clientID}/products"
	ClientSpaces    = "/api/v1/clients/{clientID}/spaces"
	AgentContracts  = "/api/v1/agents/{agentID}/contracts"

	ProductMovements = "/api/v1/products/{productID}/movements"
)
