package dto

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserLoginResponse 登录成功返回
type UserLoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// SearchRequest 全文检索请求
type SearchRequest struct {
	Keyword string `form:"q" binding:"required"`
	Page    int    `form:"page,default=1"`
}

// SearchHit 检索命中的文章
type SearchHit struct {
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Fragment  string   `json:"fragment"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
}
