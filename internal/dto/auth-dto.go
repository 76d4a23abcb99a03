package dto

type LoginDTO struct {
	PIN string `json:"pin" validate:"required,min=4"`
}

type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
