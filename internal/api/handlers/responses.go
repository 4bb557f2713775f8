package handlers

import "github.com/minhle/user-admin-api/internal/domain"

type AccountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

type UserResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Role      string           `json:"role"`
	AvatarURL string           `json:"avatarUrl,omitempty"`
	AccountID string           `json:"accountId"`
	Account   *AccountResponse `json:"account,omitempty"`
}

func newAccountResponse(account *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:       account.ID.String(),
		Username: account.Username,
		Email:    account.Email,
		Provider: string(account.Provider),
	}
}

func newUserResponse(user *domain.User) *UserResponse {
	resp := &UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Role:      string(user.Role),
		AvatarURL: user.AvatarURL,
		AccountID: user.AccountID.String(),
	}
	if user.Account != nil {
		resp.Account = newAccountResponse(user.Account)
	}
	return resp
}
