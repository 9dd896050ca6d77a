package dto

// ─── Auth ────────────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	TokenType    string              `json:"token_type"`
	ExpiresIn    int                 `json:"expires_in"`
	User         UtilisateurResponse `json:"user"`
}

// ─── Utilisateurs ────────────────────────────────────────────────────────────

type CreerUtilisateurRequest struct {
	Username string  `json:"username" validate:"required,min=3"`
	Nom      string  `json:"nom"      validate:"required"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role"     validate:"required,oneof=vendeur gerant admin"`
}

type ActualiserUtilisateurRequest struct {
	Nom      string  `json:"nom"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"omitempty,min=6"`
	Role     string  `json:"role"     validate:"omitempty,oneof=vendeur gerant admin"`
}

type UtilisateurResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Nom      string  `json:"nom"`
	Email    *string `json:"email,omitempty"`
	Role     string  `json:"role"`
	Actif    bool    `json:"actif"`
}
