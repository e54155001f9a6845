package firefly

// Wire shapes for the ledger's v1 JSON API. Only the fields the sync touches.

type accountAttributes struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	AccountRole   string `json:"account_role,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type accountRead struct {
	ID         string            `json:"id"`
	Attributes accountAttributes `json:"attributes"`
}

type accountsPage struct {
	Data []accountRead `json:"data"`
	Meta struct {
		Pagination struct {
			CurrentPage int `json:"current_page"`
			TotalPages  int `json:"total_pages"`
		} `json:"pagination"`
	} `json:"meta"`
}

type accountResponse struct {
	Data accountRead `json:"data"`
}

type transactionSplit struct {
	Type            string `json:"type"`
	Date            string `json:"date"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
	CategoryName    string `json:"category_name,omitempty"`
	SourceID        string `json:"source_id,omitempty"`
	SourceName      string `json:"source_name,omitempty"`
	DestinationID   string `json:"destination_id,omitempty"`
	DestinationName string `json:"destination_name,omitempty"`
}

type transactionPayload struct {
	ErrorIfDuplicateHash bool               `json:"error_if_duplicate_hash"`
	Transactions         []transactionSplit `json:"transactions"`
}

type errorResponse struct {
	Message string `json:"message"`
}
