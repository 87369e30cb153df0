package main

import "fmt"

// Above this rate words change more than three times a second.
const flickerWPM = 180

const (
	warningTitle  = "Photosensitivity Warning"
	warningBody   = "flash displays words rapidly, which may cause discomfort or trigger seizures in people with photosensitive conditions."
	warningAccept = "I Understand"
)

func warningDetail() string {
	return fmt.Sprintf("At speeds above %d WPM, words change more than %d times per second.", flickerWPM, flickerWPM/60)
}
