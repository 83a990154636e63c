package main

import "github.com/AlecAivazis/survey/v2"

// Wrapper for survey functions to allow mocking in tests
var (
	askOneFunc = survey.AskOne
)
