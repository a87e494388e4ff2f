// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

var hebrew = map[string]string{
	// Screens
	"Sign in":   "כניסה",
	"Welcome":   "ברוכים הבאים",
	"AI Studio": "AI Studio",
	"Profile":   "פרופיל",
	"Settings":  "הגדרות",
	"Feedback":  "משוב",

	// Login
	"Your pocket AI assistant":                    "עוזר הבינה המלאכותית שלך בכיס",
	"Continue with Google":                        "המשך עם Google",
	"Sign in with email":                          "כניסה עם אימייל",
	"No password needed. This is a demo sign-in.": "אין צורך בסיסמה. זוהי כניסת הדגמה.",
	"Could not save your profile":                 "לא ניתן לשמור את הפרופיל",

	// Onboarding
	"Chat with AI": "שיחה עם בינה מלאכותית",
	"Ask questions and get answers that stream in as they are written.": "שאלו שאלות וקבלו תשובות שמופיעות תוך כדי כתיבה.",
	"Understand images":                                "הבנת תמונות",
	"Attach a photo and ask about what is in it.":      "צרפו תמונה ושאלו מה יש בה.",
	"Listen to replies":                                "האזנה לתשובות",
	"Have any answer read aloud with a natural voice.": "כל תשובה יכולה להיות מוקראת בקול טבעי.",
	"Next":        "הבא",
	"Get started": "בואו נתחיל",

	// Dashboard
	"Ask anything…":          "שאלו כל דבר…",
	"Path to an image file":  "נתיב לקובץ תמונה",
	"Hello, %s":              "שלום, %s",
	"How can I help you today?": "איך אפשר לעזור היום?",
	"Type a message or attach an image to start": "כתבו הודעה או צרפו תמונה כדי להתחיל",
	"C-x to remove":              "C-x להסרה",
	"Thinking…":                  "חושב…",
	"Reply interrupted":          "התשובה נקטעה",
	"Reply stopped":              "התשובה הופסקה",
	"Image attached":             "התמונה צורפה",
	"Could not attach image: %v": "לא ניתן לצרף תמונה: %v",
	"Nothing to copy yet":        "אין עדיין מה להעתיק",
	"Clipboard is not available": "הלוח אינו זמין",
	"Reply copied":               "התשובה הועתקה",
	"Speech is not available":    "הקראה אינה זמינה",
	"Nothing to read aloud yet":  "אין עדיין מה להקריא",
	"Speaking…":                  "מקריא…",
	"No audio player found":      "לא נמצא נגן שמע",
	"Could not play audio":       "לא ניתן להשמיע",
	"Nothing to share yet":       "אין עדיין מה לשתף",
	"Could not share chat":       "לא ניתן לשתף את השיחה",
	"Saved to %s":                "נשמר ב־%s",

	// Provider errors
	"No API key configured. Set GEMINI_API_KEY or run 'pocketstudio config init'.": "לא הוגדר מפתח API. הגדירו GEMINI_API_KEY או הריצו 'pocketstudio config init'.",
	"The API key was rejected.":                "מפתח ה־API נדחה.",
	"Too many requests. Please wait a moment.": "יותר מדי בקשות. נא להמתין רגע.",
	"The configured model does not exist.":     "המודל שהוגדר אינו קיים.",
	"The request timed out.":                   "הבקשה חרגה מהזמן.",
	"Something went wrong talking to the assistant. Please try again.": "משהו השתבש בשיחה עם העוזר. נסו שוב.",
	"Something went wrong. Please try again.":                          "משהו השתבש. נסו שוב.",

	// Profile
	"Recent chats":   "שיחות אחרונות",
	"No chats yet":   "אין עדיין שיחות",
	"%d messages":    "%d הודעות",
	"Clear history":  "ניקוי היסטוריה",
	"Log out":        "התנתקות",
	"Delete all %d chats? This cannot be undone.": "למחוק את כל %d השיחות? לא ניתן לבטל.",
	"Delete":          "מחיקה",
	"Cancel":          "ביטול",
	"History cleared": "ההיסטוריה נמחקה",

	// Settings
	"Appearance":             "תצוגה",
	"Dark mode":              "מצב כהה",
	"Font size":              "גודל גופן",
	"Language":               "שפה",
	"On":                     "פעיל",
	"Off":                    "כבוי",
	"Small":                  "קטן",
	"Medium":                 "בינוני",
	"Large":                  "גדול",
	"(overridden by config)": "(נקבע בקובץ ההגדרות)",
	"Preview: this is how replies look.": "תצוגה מקדימה: כך ייראו התשובות.",
	"Could not save settings":            "לא ניתן לשמור את ההגדרות",
	"Settings reloaded":                  "ההגדרות נטענו מחדש",
	"Provider changes apply after restart":              "שינויי ספק ייכנסו לתוקף לאחר הפעלה מחדש",
	"Config file has errors; keeping current settings": "בקובץ ההגדרות יש שגיאות; ההגדרות הנוכחיות נשמרות",

	// Feedback
	"Send feedback": "שליחת משוב",
	"What works well? What should we improve?": "מה עובד טוב? מה כדאי לשפר?",
	"Tell us what you think…":                  "ספרו לנו מה דעתכם…",
	"Please write something first":             "נא לכתוב משהו קודם",
	"Could not send feedback":                  "לא ניתן לשלוח משוב",
	"Thanks! Your feedback was sent.":          "תודה! המשוב נשלח.",
	"Press Enter to send another":              "הקישו Enter כדי לשלוח משוב נוסף",

	"Loading…": "טוען…",
}
