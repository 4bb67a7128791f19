package pipeline

import (
	"fmt"

	"gamedex/internal"
)

const genrePromptTemplate = `Classify the video game %q into ONE single-word genre.
Choose from: Action, RPG, Sports, Strategy, Simulation, Adventure,
Puzzle, Racing, Fighting, Horror, Platformer, Shooter, MMORPG, Sandbox, Card

Respond with ONLY the genre word, nothing else.

Game: %s
Genre:`

const descriptionPromptTemplate = `Write a short description for the video game %q.
The description must be under 30 words.
Be concise and focus on the core gameplay and unique features.
Do not include the game title in the description.

Game: %s
Description:`

const playerModePromptTemplate = `Determine the player mode for the video game %q.

Respond with ONLY ONE of these three options:
- Singleplayer (if the game is primarily single-player only)
- Multiplayer (if the game is primarily multiplayer only)
- Both (if the game supports both single-player and multiplayer modes)

Game: %s
Player Mode:`

// PromptFor renders the query text for one attribute of one game title.
func PromptFor(kind internal.AttributeKind, title string) string {
	switch kind {
	case internal.KindGenre:
		return fmt.Sprintf(genrePromptTemplate, title, title)
	case internal.KindDescription:
		return fmt.Sprintf(descriptionPromptTemplate, title, title)
	case internal.KindPlayerMode:
		return fmt.Sprintf(playerModePromptTemplate, title, title)
	}
	return ""
}
