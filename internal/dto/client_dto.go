package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreerClientRequest struct {
	Nom       string  `json:"nom"       validate:"required,min=2,max=120"`
	Telephone *string `json:"telephone"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Adresse   *string `json:"adresse"`
}

type ActualiserClientRequest struct {
	Telephone *string `json:"telephone"`
	Email     *string `json:"email"   validate:"omitempty,email"`
	Adresse   *string `json:"adresse"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClientResponse struct {
	ID        string  `json:"id"`
	Nom       string  `json:"nom"`
	Telephone *string `json:"telephone"`
	Email     *string `json:"email"`
	Adresse   *string `json:"adresse"`
	Actif     bool    `json:"actif"`
}
