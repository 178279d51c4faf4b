package views

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys are the English text. English needs no entries: a key
// missing from the catalog prints as itself.
var bengali = map[string]string{
	"FF Portal":                               "FF পোর্টাল",
	"Play and win":                            "খেলুন এবং জিতুন",
	"Email or user ID":                        "ইমেইল বা ইউজার আইডি",
	"Password":                                "পাসওয়ার্ড",
	"Please wait...":                          "অপেক্ষা করুন...",
	"Login":                                   "লগইন",
	"Other options":                           "অন্যান্য",
	"Login with Google":                       "Google দিয়ে লগইন",
	"No account?":                             "অ্যাকাউন্ট নেই?",
	"Register":                                "নিবন্ধন করুন",
	"Registration":                            "নিবন্ধন",
	"Full name":                               "পুরো নাম",
	"User ID or email":                        "ইউজার আইডি বা ইমেইল",
	"Free Fire game ID":                       "ফ্রি ফায়ার গেম আইডি",
	"At least 6 characters":                   "কমপক্ষে ৬ ডিজিট",
	"Processing...":                           "প্রসেসিং...",
	"Complete registration":                   "নিবন্ধন সম্পন্ন করুন",
	"Back to login":                           "লগইন এ ফিরে যান",
	"1st prize":                               "১ম পুরস্কার",
	"Per kill":                                "প্রতি কিল",
	"Base fee":                                "বেস ফি",
	"Map: %s":                                 "ম্যাপ: %s",
	"Time: %s":                                "সময়: %s",
	"Player list (%d)":                        "প্লেয়ার লিস্ট (%d)",
	"Joined (%s)":                             "জয়েন করেছেন (%s)",
	"Match over":                              "ম্যাচ শেষ",
	"Waiting for room":                        "রুম খোলার অপেক্ষায়",
	"Room ID comes 10 minutes before start":   "১০ মিনিট আগে রুম আইডি আসবে",
	"Closed":                                  "বন্ধ হয়েছে",
	"Full":                                    "ফুল হয়ে গেছে",
	"Join":                                    "জয়েন করুন",
	"Wallet":                                  "ওয়ালেট",
	"Current balance":                         "বর্তমান ব্যালেন্স",
	"Add money":                               "টাকা যোগ",
	"Withdraw money":                          "টাকা উত্তোলন",
	"Our %s number: %s":                       "আমাদের %s নাম্বার: %s",
	"Amount":                                  "টাকার পরিমাণ",
	"%s number":                               "%s নাম্বার",
	"Transaction ID":                          "ট্রানজেকশন আইডি",
	"Request deposit":                         "টাকা যোগের আবেদন করুন",
	"How much to withdraw":                    "কত টাকা তুলবেন",
	"Request withdrawal":                      "টাকা উত্তোলনের আবেদন করুন",
	"Transactions":                            "লেনদেন",
	"Home":                                    "হোম",
	"Matches":                                 "ম্যাচ",
	"Support":                                 "সাপোর্ট",
	"Admin":                                   "এডমিন",
	"Balance":                                 "ব্যালেন্স",
	"Connection lost, reconnecting in %s":     "সংযোগ বিচ্ছিন্ন, %s পরে আবার চেষ্টা হচ্ছে",
	"Important notices":                       "গুরুত্বপূর্ণ নোটিশ",
	"Running tournaments":                     "চলমান টুর্নামেন্ট",
	"No tournaments right now":                "বর্তমানে কোনো টুর্নামেন্ট নেই",
	"Profile settings":                        "প্রোফাইল সেটিংস",
	"Name":                                    "নাম",
	"Game ID":                                 "গেম আইডি",
	"Log out":                                 "লগআউট করুন",
	"Do you want to log out?":                 "লগআউট করতে চান?",
	"My matches":                              "আমার ম্যাচ",
	"You have not joined any match":           "আপনি কোনো ম্যাচে জয়েন করেননি",
	"Describe your problem in detail...":      "আপনার সমস্যার কথা বিস্তারিত লিখুন...",
	"Send message":                            "মেসেজ পাঠান",
	"Reply: %s":                               "রিপ্লাই: %s",
	"Admin control":                           "অ্যাডমিন কন্ট্রোল",
	"Match mode":                              "ম্যাচ মোড",
	"Player %d":                               "প্লেয়ার %d",
	"Game name":                               "গেম নাম",
	"Total fee":                               "মোট ফি",
	"Cancel":                                  "বাতিল",
	"Confirm":                                 "কনফার্ম",
	"Team %d":                                 "টিম %d",
	"Nobody has joined yet":                   "এখনো কেউ অংশগ্রহণ করেনি",
	"Close":                                   "বন্ধ করুন",
	"Minimum deposit is 100 Taka!":            "নূন্যতম ১০০ টাকা জমা দিতে হবে!",
	"Fill in all details!":                    "সব তথ্য পূরণ করুন!",
	"Request submitted!":                      "আবেদন জমা হয়েছে!",
	"Minimum withdrawal is 200 Taka!":         "নূন্যতম ২০০ টাকা উত্তোলন করতে হবে!",
	"Balance is not enough!":                  "ব্যালেন্স যথেষ্ট নয়!",
	"Enter a valid number!":                   "সঠিক নাম্বার দিন!",
	"Withdrawal submitted successfully!":      "উত্তোলন সফলভাবে জমা হয়েছে!",
	"Provide all details!":                    "সব তথ্য দিন!",
	"Password must be at least 6 characters!": "পাসওয়ার্ড কমপক্ষে ৬ ডিজিট হতে হবে!",
	"Registration successful!":                "নিবন্ধন সফল হয়েছে!",
	"This user ID is already in use.":         "এই ইউজার আইডি ইতিমধ্যে ব্যবহৃত হয়েছে।",
	"Error: %s":                               "ত্রুটি: %s",
	"Wrong ID or password!":                   "ভুল আইডি বা পাসওয়ার্ড!",
	"Enter all player names!":                 "সব প্লেয়ারের নাম দিন!",
	"Joined successfully!":                    "জয়েন সফল হয়েছে!",
	"Message sent!":                           "বার্তা পাঠানো হয়েছে!",
	"Write a message first!":                  "আগে মেসেজ লিখুন!",
	"This tournament is full!":                "টুর্নামেন্ট ফুল হয়ে গেছে!",
	"You already joined this match!":          "আপনি ইতিমধ্যে জয়েন করেছেন!",
	"This match is closed!":                   "ম্যাচ বন্ধ হয়েছে!",
	"Tournament not found!":                   "টুর্নামেন্ট পাওয়া যায়নি!",
	"Session expired, log in again!":          "সেশন শেষ, আবার লগইন করুন!",
}

// alertText maps a server or shell code to the message key shown for it.
var alertText = map[string]string{
	"deposit_below_minimum":     "Minimum deposit is 100 Taka!",
	"missing_payment_details":   "Fill in all details!",
	"deposit_success":           "Request submitted!",
	"withdrawal_below_minimum":  "Minimum withdrawal is 200 Taka!",
	"insufficient_balance":      "Balance is not enough!",
	"missing_receiving_number":  "Enter a valid number!",
	"withdraw_success":          "Withdrawal submitted successfully!",
	"missing_fields":            "Provide all details!",
	"weak_password":             "Password must be at least 6 characters!",
	"register_success":          "Registration successful!",
	"auth/email-already-in-use": "This user ID is already in use.",
	"auth/invalid-credential":   "Wrong ID or password!",
	"auth/invalid-token":        "Session expired, log in again!",
	"blank_player_name":         "Enter all player names!",
	"wrong_roster_size":         "Enter all player names!",
	"join_success":              "Joined successfully!",
	"message_sent":              "Message sent!",
	"empty_message":             "Write a message first!",
	"tournament_full":           "This tournament is full!",
	"already_joined":            "You already joined this match!",
	"tournament_closed":         "This match is closed!",
	"not_found":                 "Tournament not found!",
}

var messages = func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range bengali {
		b.SetString(language.Bengali, key, text)
	}
	return b
}()

var (
	supported = []language.Tag{language.English, language.Bengali}
	matcher   = language.NewMatcher(supported)
)

// Tag resolves a --lang value; anything other than Bengali is English.
func Tag(lang string) language.Tag {
	_, i, _ := matcher.Match(language.Make(lang))
	return supported[i]
}

func newPrinter(lang string) *message.Printer {
	return message.NewPrinter(Tag(lang), message.Catalog(messages))
}
