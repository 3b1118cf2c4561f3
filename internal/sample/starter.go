package sample

// Starter describes the starter this sample demonstrates. It's the payload of
// the root endpoint.
type Starter struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var DefaultStarter = Starter{
	ID:    "spring-boot-starter-web-reactive",
	Label: "Spring Boot Web Reactive",
}
