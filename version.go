package gocbkvx

const buildVersion = "v0.1.0"
