package dto

// UserListResponse 用户列表响应，供管理员指派任务
type UserListResponse struct {
	Success bool       `json:"success"`
	Users   []UserInfo `json:"users"`
	Total   int        `json:"total"`
}
