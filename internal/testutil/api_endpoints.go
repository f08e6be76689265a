package testutil

import "fmt"

const (
	APIBaseURL          = "/api/v1"
	HealthCheckEndpoint = APIBaseURL + "/health"
	UsersEndpoint       = APIBaseURL + "/users"
	SignupEndpoint      = UsersEndpoint + "/signup"
	LoginEndpoint       = UsersEndpoint + "/login"
	PostsEndpoint       = APIBaseURL + "/posts"
	LikeEndpoint        = APIBaseURL + "/like"
)

// PostURL returns the endpoint of a single post
func PostURL(postID uint) string {
	return fmt.Sprintf("%s/%d", PostsEndpoint, postID)
}

// LikeURL returns the like endpoint of a post
func LikeURL(postID uint) string {
	return fmt.Sprintf("%s/%d", LikeEndpoint, postID)
}
