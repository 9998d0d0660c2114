package keys

import evdev "github.com/holoplot/go-evdev"

// entry binds one kernel key code to its symbolic names. alt and shifted
// may be empty.
type entry struct {
	code    Code
	name    string
	alt     string
	shifted string
}

// Linux input key codes named the way test files refer to them.
var keymap = []entry{
	{evdev.KEY_ESC, "esc", "escape", ""},
	{evdev.KEY_1, "1", "", "!"},
	{evdev.KEY_2, "2", "", "@"},
	{evdev.KEY_3, "3", "", "#"},
	{evdev.KEY_4, "4", "", "$"},
	{evdev.KEY_5, "5", "", "%"},
	{evdev.KEY_6, "6", "", "^"},
	{evdev.KEY_7, "7", "", "&"},
	{evdev.KEY_8, "8", "", "*"},
	{evdev.KEY_9, "9", "", "("},
	{evdev.KEY_0, "0", "", ")"},
	{evdev.KEY_MINUS, "-", "minus", "_"},
	{evdev.KEY_EQUAL, "=", "equal", "+"},
	{evdev.KEY_BACKSPACE, "backspace", "", ""},
	{evdev.KEY_TAB, "tab", "", ""},
	{evdev.KEY_Q, "q", "", "Q"},
	{evdev.KEY_W, "w", "", "W"},
	{evdev.KEY_E, "e", "", "E"},
	{evdev.KEY_R, "r", "", "R"},
	{evdev.KEY_T, "t", "", "T"},
	{evdev.KEY_Y, "y", "", "Y"},
	{evdev.KEY_U, "u", "", "U"},
	{evdev.KEY_I, "i", "", "I"},
	{evdev.KEY_O, "o", "", "O"},
	{evdev.KEY_P, "p", "", "P"},
	{evdev.KEY_LEFTBRACE, "[", "leftbrace", "{"},
	{evdev.KEY_RIGHTBRACE, "]", "rightbrace", "}"},
	{evdev.KEY_ENTER, "enter", "", ""},
	{evdev.KEY_LEFTCTRL, "leftcontrol", "", ""},
	{84, "iso-level3-shift", "", ""}, // absent from input-event-codes.h, used as altgr by X
	{evdev.KEY_A, "a", "", "A"},
	{evdev.KEY_S, "s", "", "S"},
	{evdev.KEY_D, "d", "", "D"},
	{evdev.KEY_F, "f", "", "F"},
	{evdev.KEY_G, "g", "", "G"},
	{evdev.KEY_H, "h", "", "H"},
	{evdev.KEY_J, "j", "", "J"},
	{evdev.KEY_K, "k", "", "K"},
	{evdev.KEY_L, "l", "", "L"},
	{evdev.KEY_SEMICOLON, ";", "semicolon", ":"},
	{evdev.KEY_APOSTROPHE, "'", "apostrophe", "\""},
	{evdev.KEY_GRAVE, "`", "grave", "~"},
	{evdev.KEY_LEFTSHIFT, "leftshift", "", ""},
	{evdev.KEY_BACKSLASH, "\\", "backslash", "|"},
	{evdev.KEY_Z, "z", "", "Z"},
	{evdev.KEY_X, "x", "", "X"},
	{evdev.KEY_C, "c", "", "C"},
	{evdev.KEY_V, "v", "", "V"},
	{evdev.KEY_B, "b", "", "B"},
	{evdev.KEY_N, "n", "", "N"},
	{evdev.KEY_M, "m", "", "M"},
	{evdev.KEY_COMMA, ",", "comma", "<"},
	{evdev.KEY_DOT, ".", "dot", ">"},
	{evdev.KEY_SLASH, "/", "slash", "?"},
	{evdev.KEY_RIGHTSHIFT, "rightshift", "", ""},
	{evdev.KEY_KPASTERISK, "kpasterisk", "", ""},
	{evdev.KEY_LEFTALT, "leftalt", "", ""},
	{evdev.KEY_SPACE, "space", " ", ""},
	{evdev.KEY_CAPSLOCK, "capslock", "", ""},
	{evdev.KEY_F1, "f1", "", ""},
	{evdev.KEY_F2, "f2", "", ""},
	{evdev.KEY_F3, "f3", "", ""},
	{evdev.KEY_F4, "f4", "", ""},
	{evdev.KEY_F5, "f5", "", ""},
	{evdev.KEY_F6, "f6", "", ""},
	{evdev.KEY_F7, "f7", "", ""},
	{evdev.KEY_F8, "f8", "", ""},
	{evdev.KEY_F9, "f9", "", ""},
	{evdev.KEY_F10, "f10", "", ""},
	{evdev.KEY_NUMLOCK, "numlock", "", ""},
	{evdev.KEY_SCROLLLOCK, "scrolllock", "", ""},
	{evdev.KEY_KP7, "kp7", "", ""},
	{evdev.KEY_KP8, "kp8", "", ""},
	{evdev.KEY_KP9, "kp9", "", ""},
	{evdev.KEY_KPMINUS, "kpminus", "", ""},
	{evdev.KEY_KP4, "kp4", "", ""},
	{evdev.KEY_KP5, "kp5", "", ""},
	{evdev.KEY_KP6, "kp6", "", ""},
	{evdev.KEY_KPPLUS, "kpplus", "", ""},
	{evdev.KEY_KP1, "kp1", "", ""},
	{evdev.KEY_KP2, "kp2", "", ""},
	{evdev.KEY_KP3, "kp3", "", ""},
	{evdev.KEY_KP0, "kp0", "", ""},
	{evdev.KEY_KPDOT, "kpdot", "", ""},
	{evdev.KEY_ZENKAKUHANKAKU, "zenkakuhankaku", "", ""},
	{evdev.KEY_102ND, "102nd", "", ""},
	{evdev.KEY_F11, "f11", "", ""},
	{evdev.KEY_F12, "f12", "", ""},
	{evdev.KEY_RO, "ro", "", ""},
	{evdev.KEY_KATAKANA, "katakana", "", ""},
	{evdev.KEY_HIRAGANA, "hiragana", "", ""},
	{evdev.KEY_HENKAN, "henkan", "", ""},
	{evdev.KEY_KATAKANAHIRAGANA, "katakanahiragana", "", ""},
	{evdev.KEY_MUHENKAN, "muhenkan", "", ""},
	{evdev.KEY_KPJPCOMMA, "kpjpcomma", "", ""},
	{evdev.KEY_KPENTER, "kpenter", "", ""},
	{evdev.KEY_RIGHTCTRL, "rightcontrol", "", ""},
	{evdev.KEY_KPSLASH, "kpslash", "", ""},
	{evdev.KEY_SYSRQ, "sysrq", "", ""},
	{evdev.KEY_RIGHTALT, "rightalt", "", ""},
	{evdev.KEY_LINEFEED, "linefeed", "", ""},
	{evdev.KEY_HOME, "home", "", ""},
	{evdev.KEY_UP, "up", "", ""},
	{evdev.KEY_PAGEUP, "pageup", "", ""},
	{evdev.KEY_LEFT, "left", "", ""},
	{evdev.KEY_RIGHT, "right", "", ""},
	{evdev.KEY_END, "end", "", ""},
	{evdev.KEY_DOWN, "down", "", ""},
	{evdev.KEY_PAGEDOWN, "pagedown", "", ""},
	{evdev.KEY_INSERT, "insert", "", ""},
	{evdev.KEY_DELETE, "delete", "", ""},
	{evdev.KEY_MACRO, "macro", "", ""},
	{evdev.KEY_MUTE, "mute", "", ""},
	{evdev.KEY_VOLUMEDOWN, "volumedown", "", ""},
	{evdev.KEY_VOLUMEUP, "volumeup", "", ""},
	{evdev.KEY_POWER, "power", "", ""},
	{evdev.KEY_KPEQUAL, "kpequal", "", ""},
	{evdev.KEY_KPPLUSMINUS, "kpplusminus", "", ""},
	{evdev.KEY_PAUSE, "pause", "", ""},
	{evdev.KEY_SCALE, "scale", "", ""},
	{evdev.KEY_KPCOMMA, "kpcomma", "", ""},
	{evdev.KEY_HANGEUL, "hangeul", "", ""},
	{evdev.KEY_HANJA, "hanja", "", ""},
	{evdev.KEY_YEN, "yen", "", ""},
	{evdev.KEY_LEFTMETA, "leftmeta", "", ""},
	{evdev.KEY_RIGHTMETA, "rightmeta", "", ""},
	{evdev.KEY_COMPOSE, "compose", "", ""},
	{evdev.KEY_STOP, "stop", "", ""},
	{evdev.KEY_AGAIN, "again", "", ""},
	{evdev.KEY_PROPS, "props", "", ""},
	{evdev.KEY_UNDO, "undo", "", ""},
	{evdev.KEY_FRONT, "front", "", ""},
	{evdev.KEY_COPY, "copy", "", ""},
	{evdev.KEY_OPEN, "open", "", ""},
	{evdev.KEY_PASTE, "paste", "", ""},
	{evdev.KEY_FIND, "find", "", ""},
	{evdev.KEY_CUT, "cut", "", ""},
	{evdev.KEY_HELP, "help", "", ""},
	{evdev.KEY_MENU, "menu", "", ""},
	{evdev.KEY_CALC, "calc", "", ""},
	{evdev.KEY_SETUP, "setup", "", ""},
	{evdev.KEY_SLEEP, "sleep", "", ""},
	{evdev.KEY_WAKEUP, "wakeup", "", ""},
	{evdev.KEY_FILE, "file", "", ""},
	{evdev.KEY_SENDFILE, "sendfile", "", ""},
	{evdev.KEY_DELETEFILE, "deletefile", "", ""},
	{evdev.KEY_XFER, "xfer", "", ""},
	{evdev.KEY_PROG1, "prog1", "", ""},
	{evdev.KEY_PROG2, "prog2", "", ""},
	{evdev.KEY_WWW, "www", "", ""},
	{evdev.KEY_MSDOS, "msdos", "", ""},
	{evdev.KEY_COFFEE, "coffee", "", ""},
	{evdev.KEY_ROTATE_DISPLAY, "display", "", ""},
	{evdev.KEY_CYCLEWINDOWS, "cyclewindows", "", ""},
	{evdev.KEY_MAIL, "mail", "", ""},
	{evdev.KEY_BOOKMARKS, "bookmarks", "", ""},
	{evdev.KEY_COMPUTER, "computer", "", ""},
	{evdev.KEY_BACK, "back", "", ""},
	{evdev.KEY_FORWARD, "forward", "", ""},
	{evdev.KEY_CLOSECD, "closecd", "", ""},
	{evdev.KEY_EJECTCD, "ejectcd", "", ""},
	{evdev.KEY_EJECTCLOSECD, "ejectclosecd", "", ""},
	{evdev.KEY_NEXTSONG, "nextsong", "", ""},
	{evdev.KEY_PLAYPAUSE, "playpause", "", ""},
	{evdev.KEY_PREVIOUSSONG, "previoussong", "", ""},
	{evdev.KEY_STOPCD, "stopcd", "", ""},
	{evdev.KEY_RECORD, "record", "", ""},
	{evdev.KEY_REWIND, "rewind", "", ""},
	{evdev.KEY_PHONE, "phone", "", ""},
	{evdev.KEY_ISO, "iso", "", ""},
	{evdev.KEY_CONFIG, "config", "", ""},
	{evdev.KEY_HOMEPAGE, "homepage", "", ""},
	{evdev.KEY_REFRESH, "refresh", "", ""},
	{evdev.KEY_EXIT, "exit", "", ""},
	{evdev.KEY_MOVE, "move", "", ""},
	{evdev.KEY_EDIT, "edit", "", ""},
	{evdev.KEY_SCROLLUP, "scrollup", "", ""},
	{evdev.KEY_SCROLLDOWN, "scrolldown", "", ""},
	{evdev.KEY_KPLEFTPAREN, "kpleftparen", "", ""},
	{evdev.KEY_KPRIGHTPAREN, "kprightparen", "", ""},
	{evdev.KEY_NEW, "new", "", ""},
	{evdev.KEY_REDO, "redo", "", ""},
	{evdev.KEY_F13, "f13", "", ""},
	{evdev.KEY_F14, "f14", "", ""},
	{evdev.KEY_F15, "f15", "", ""},
	{evdev.KEY_F16, "f16", "", ""},
	{evdev.KEY_F17, "f17", "", ""},
	{evdev.KEY_F18, "f18", "", ""},
	{evdev.KEY_F19, "f19", "", ""},
	{evdev.KEY_F20, "f20", "", ""},
	{evdev.KEY_F21, "f21", "", ""},
	{evdev.KEY_F22, "f22", "", ""},
	{evdev.KEY_F23, "f23", "", ""},
	{evdev.KEY_F24, "f24", "", ""},
	{evdev.KEY_PLAYCD, "playcd", "", ""},
	{evdev.KEY_PAUSECD, "pausecd", "", ""},
	{evdev.KEY_PROG3, "prog3", "", ""},
	{evdev.KEY_PROG4, "prog4", "", ""},
	{evdev.KEY_DASHBOARD, "dashboard", "", ""},
	{evdev.KEY_SUSPEND, "suspend", "", ""},
	{evdev.KEY_CLOSE, "close", "", ""},
	{evdev.KEY_PLAY, "play", "", ""},
	{evdev.KEY_FASTFORWARD, "fastforward", "", ""},
	{evdev.KEY_BASSBOOST, "bassboost", "", ""},
	{evdev.KEY_PRINT, "print", "", ""},
	{evdev.KEY_HP, "hp", "", ""},
	{evdev.KEY_CAMERA, "camera", "", ""},
	{evdev.KEY_SOUND, "sound", "", ""},
	{evdev.KEY_QUESTION, "question", "", ""},
	{evdev.KEY_EMAIL, "email", "", ""},
	{evdev.KEY_CHAT, "chat", "", ""},
	{evdev.KEY_SEARCH, "search", "", ""},
	{evdev.KEY_CONNECT, "connect", "", ""},
	{evdev.KEY_FINANCE, "finance", "", ""},
	{evdev.KEY_SPORT, "sport", "", ""},
	{evdev.KEY_SHOP, "shop", "", ""},
	{evdev.KEY_ALTERASE, "alterase", "", ""},
	{evdev.KEY_CANCEL, "cancel", "", ""},
	{evdev.KEY_BRIGHTNESSDOWN, "brightnessdown", "", ""},
	{evdev.KEY_BRIGHTNESSUP, "brightnessup", "", ""},
	{evdev.KEY_MEDIA, "media", "", ""},
	{evdev.KEY_SWITCHVIDEOMODE, "switchvideomode", "", ""},
	{evdev.KEY_KBDILLUMTOGGLE, "kbdillumtoggle", "", ""},
	{evdev.KEY_KBDILLUMDOWN, "kbdillumdown", "", ""},
	{evdev.KEY_KBDILLUMUP, "kbdillumup", "", ""},
	{evdev.KEY_SEND, "send", "", ""},
	{evdev.KEY_REPLY, "reply", "", ""},
	{evdev.KEY_FORWARDMAIL, "forwardmail", "", ""},
	{evdev.KEY_SAVE, "save", "", ""},
	{evdev.KEY_DOCUMENTS, "documents", "", ""},
	{evdev.KEY_BATTERY, "battery", "", ""},
	{evdev.KEY_BLUETOOTH, "bluetooth", "", ""},
	{evdev.KEY_WLAN, "wlan", "", ""},
	{evdev.KEY_UWB, "uwb", "", ""},
	{evdev.KEY_UNKNOWN, "unknown", "", ""},
	{evdev.KEY_VIDEO_NEXT, "next", "", ""},
	{evdev.KEY_VIDEO_PREV, "prev", "", ""},
	{evdev.KEY_BRIGHTNESS_CYCLE, "cycle", "", ""},
	{evdev.KEY_BRIGHTNESS_AUTO, "auto", "", ""},
	{evdev.KEY_DISPLAY_OFF, "off", "", ""},
	{evdev.KEY_WWAN, "wwan", "", ""},
	{evdev.KEY_RFKILL, "rfkill", "", ""},
	{evdev.KEY_MICMUTE, "micmute", "", ""},

	// Pointer buttons. The daemon emits them on its virtual keyboard but
	// the synthetic keyboard never advertises them.
	{evdev.BTN_LEFT, "leftmouse", "", ""},
	{evdev.BTN_RIGHT, "rightmouse", "", ""},
	{evdev.BTN_MIDDLE, "middlemouse", "", ""},
	{evdev.BTN_SIDE, "mouse1", "", ""},
	{evdev.BTN_EXTRA, "mouse2", "", ""},
}

// Modifier aliases resolve to the left-hand key of each pair.
var modifierAliases = map[string]Code{
	"control": evdev.KEY_LEFTCTRL,
	"shift":   evdev.KEY_LEFTSHIFT,
	"meta":    evdev.KEY_LEFTMETA,
	"alt":     evdev.KEY_LEFTALT,
	"altgr":   evdev.KEY_RIGHTALT,
}

// ShiftCode is pressed around characters that resolve through the
// shifted tier.
const ShiftCode Code = evdev.KEY_LEFTSHIFT

// IsMouseButton reports whether code is a pointer button rather than a key.
func IsMouseButton(code Code) bool {
	return code >= evdev.BTN_MISC && code < evdev.KEY_OK
}
