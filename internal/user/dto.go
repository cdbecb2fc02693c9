// AngelaMos | 2026
// dto.go

package user

type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty"  validate:"omitempty,max=100"`
	Email     *string `json:"email,omitempty"      validate:"omitempty,email,max=255"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type RecentOrderResponse struct {
	ID       int64       `json:"id"`
	Status   string      `json:"status"`
	Products []OrderLine `json:"products"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}

func ToRecentOrderResponseList(orders []RecentOrder) []RecentOrderResponse {
	responses := make([]RecentOrderResponse, 0, len(orders))
	for _, o := range orders {
		products := []OrderLine(o.Products)
		if products == nil {
			products = []OrderLine{}
		}
		responses = append(responses, RecentOrderResponse{
			ID:       o.ID,
			Status:   o.Status,
			Products: products,
		})
	}
	return responses
}

func (r UpdateUserRequest) changes() Changes {
	return Changes{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}
