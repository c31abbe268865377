package dialogue

import (
	"fmt"

	"tablevoice/models"
)

const promptGreeting = "Welcome to our restaurant reservation line. " +
	"You can make a new reservation, check an existing one, or cancel. " +
	"You can also press 1 to book, 2 to check, or 3 to cancel. How may I help you?"

const promptGoodbye = "Thank you for calling. Have a great day!"

const promptApology = "I'm sorry, we're having technical trouble right now. " +
	"Please call back in a few minutes. Goodbye."

// Escalating re-prompts per slot, indexed by how many attempts have failed.
// The last entry repeats if the ceiling allows more retries than listed.
var reprompts = map[models.Slot][]string{
	models.SlotIntent: {
		"I didn't quite understand that. You can say 'make a reservation', 'check reservation', or 'cancel reservation'.",
		"Sorry, I still didn't catch that. Please press 1 to make a reservation, 2 to check one, or 3 to cancel.",
	},
	models.SlotName: {
		"I didn't catch your name. Could you please say your name again?",
		"Sorry, one more time. Please say just your first and last name.",
	},
	models.SlotDate: {
		"I didn't catch the date. What date would you like?",
		"Please say a date like 'tomorrow', 'Friday', or 'March 5th'.",
	},
	models.SlotTime: {
		"I didn't catch the time. What time would you like? We're open from 9 AM to 10 PM.",
		"Please say a time like '7 PM', '1 o'clock', or 'noon'. We're open from 9 AM to 10 PM.",
	},
	models.SlotPartySize: {
		"How many people will be dining? Please say the number.",
		"Please say a number between one and twenty, like 'four' or 'ten'.",
	},
	models.SlotCode: {
		"I didn't catch your reservation code. Please say it again, or spell it out.",
		"Please say or key in the six characters of your reservation code, one at a time.",
	},
}

func repromptFor(slot models.Slot, attempt int) string {
	texts := reprompts[slot]
	if len(texts) == 0 {
		return promptGreeting
	}
	if attempt > len(texts) {
		attempt = len(texts)
	}
	return texts[attempt-1]
}

func promptAskName() string {
	return "Great, I'd be happy to help you make a reservation. May I have your name?"
}

func promptAskDate(name string) string {
	return fmt.Sprintf("Thank you, %s. What date would you like? You can say 'tomorrow', a weekday, or a date like 'March 5th'.", name)
}

func promptAskTime(date string) string {
	return fmt.Sprintf("Reservation for %s. What time would you like? We're open from 9 AM to 10 PM.", date)
}

func promptAskPartySize(t string) string {
	return fmt.Sprintf("Time set for %s. How many people will be dining?", t)
}

func promptClarifyTime(hour int) string {
	return fmt.Sprintf("I heard %d o'clock. Is that in the morning or the evening?", hour)
}

func promptTimeOutsideWindow() string {
	return "I'm sorry, we're only open from 9 AM to 10 PM. Please choose a time within our opening hours."
}

func promptAskCode(intent models.Intent) string {
	if intent == models.IntentCancel {
		return "I can help you cancel a reservation. Please say or key in your reservation code."
	}
	return "I can help you check a reservation. Please say or key in your reservation code."
}

func promptCodeNotFound(code string) string {
	return fmt.Sprintf("I couldn't find a reservation with code %s. Please double-check the code and say it again.", spellCode(code))
}

func promptConfirmed(res models.Reservation) string {
	return fmt.Sprintf(
		"Perfect! Your table for %d is booked for %s at %s under the name %s. Your confirmation code is %s. See you then!",
		res.PartySize, res.Date, res.Time, res.CustomerName, spellCode(res.Code))
}

func promptCheckFound(res models.Reservation) string {
	status := "confirmed"
	if res.Status == models.ReservationCancelled {
		status = "cancelled"
	}
	return fmt.Sprintf(
		"I found your reservation. Code %s, name %s, on %s at %s for %d guests. It is currently %s. %s",
		spellCode(res.Code), res.CustomerName, res.Date, res.Time, res.PartySize, status, promptGoodbye)
}

func promptCancelled(code string) string {
	return fmt.Sprintf("Your reservation %s has been cancelled. Thank you for letting us know. %s", spellCode(code), promptGoodbye)
}

// spellCode spaces out code characters so text-to-speech reads them one by
// one instead of as a word.
func spellCode(code string) string {
	out := make([]byte, 0, len(code)*2)
	for i := 0; i < len(code); i++ {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, code[i])
	}
	return string(out)
}
