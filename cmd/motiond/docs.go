package main

// General API documentation for swaggo. Run `swag init -g cmd/motiond/docs.go`
// and build with -tags=swagger to serve it.
//
// @title           motiond API
// @version         1.0
// @description     JSON API for text-to-motion generation.
//
// @BasePath  /
//
// @schemes http
