package analyzers

var (
	brandTerms = []string{
		"paypal", "amazon", "apple", "microsoft", "google", "facebook", "netflix",
		"bank", "chase", "wells fargo", "citibank", "amex", "american express",
	}

	freeEmailDomains = map[string]bool{
		"gmail.com": true, "yahoo.com": true, "hotmail.com": true, "aol.com": true,
		"outlook.com": true, "mail.com": true, "zoho.com": true, "protonmail.com": true,
		"icloud.com": true, "yandex.com": true, "gmx.com": true, "tutanota.com": true,
	}

	suspiciousSenderTLDs = map[string]bool{
		"xyz": true, "top": true, "club": true, "online": true, "site": true, "cyou": true,
		"icu": true, "work": true, "live": true, "click": true, "link": true, "bid": true,
		"party": true,
	}

	suspiciousSenderWords = []string{
		"security", "verify", "update", "support", "team", "alert", "notification",
		"account", "confirm", "secure", "service", "admin", "billing", "payment",
		"official", "helpdesk",
	}

	shortenerHosts = map[string]bool{
		"bit.ly": true, "tinyurl.com": true, "goo.gl": true, "t.co": true, "ow.ly": true,
		"tiny.cc": true, "is.gd": true, "buff.ly": true, "rebrand.ly": true, "cutt.ly": true,
		"shorturl.at": true, "clck.ru": true, "bitly.com": true,
	}

	suspiciousURLTLDs = map[string]bool{
		"xyz": true, "top": true, "club": true, "online": true, "site": true, "cyou": true,
		"icu": true, "work": true, "live": true, "click": true, "link": true, "bid": true,
		"party": true, "tk": true, "ml": true, "ga": true, "cf": true, "gq": true, "pw": true,
	}

	subjectUrgencyWords = []string{
		"urgent", "alert", "verify", "update", "security", "account", "suspended",
		"unusual", "confirm", "important", "password", "login", "immediately",
		"attention", "required",
	}

	bodyUrgencyPhrases = []string{
		"act now", "urgent action", "immediate action", "expires soon", "limited time",
		"24 hours", "immediately", "as soon as possible", "failure to comply",
		"account will be", "before it's too late", "right away", "time sensitive",
	}

	sensitiveDataTerms = []string{
		"password", "credit card", "account number", "credentials", "social security",
		"ssn", "banking details", "personal details", "pin", "security question",
		"mother's maiden name", "login", "username and password",
	}

	claimTerms = []string{
		"won", "winner", "lottery", "selected", "prize", "million", "reward",
		"inheritance", "claim your", "you have been chosen", "congratulations",
		"exclusive offer", "free gift", "jackpot",
	}

	poorGrammarPhrases = []string{
		"kindly", "dear valued", "dear costumer", "dear customer",
		"your account will closed", "verify you account", "your are",
		"we detected unusual", "we detected suspicious",
	}

	threatTerms = []string{
		"suspended", "terminated", "closed", "deleted", "unauthorized",
		"suspicious activity", "unusual activity", "breach", "compromised", "locked",
		"restricted", "limitation",
	}
)
