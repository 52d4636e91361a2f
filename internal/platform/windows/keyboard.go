//go:build windows

package windows

import (
	"fmt"
	"unsafe"

	"github.com/mj1618/exportbot/internal/platform"
)

const (
	inputKeyboard     = 1
	keyeventfExtended = 0x0001
	keyeventfKeyUp    = 0x0002
)

type keyboardInput struct {
	WVK         uint16
	WScan       uint16
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

// input mirrors INPUT on 64-bit Windows: the union is sized by MOUSEINPUT.
type input struct {
	Type  uint32
	_pad1 uint32
	Ki    keyboardInput
	_pad2 uint64
}

var virtualKeys = map[string]uint16{
	platform.KeyAlt:   0x12,
	platform.KeyCtrl:  0x11,
	platform.KeyShift: 0x10,
	platform.KeyCmd:   0x5B,
	platform.KeyEnter: 0x0D,
	platform.KeyTab:   0x09,
	platform.KeySpace: 0x20,
	platform.KeyEsc:   0x1B,
	platform.KeyLeft:  0x25,
	platform.KeyUp:    0x26,
	platform.KeyRight: 0x27,
	platform.KeyDown:  0x28,
}

func isExtended(vk uint16) bool {
	return (vk >= 0x25 && vk <= 0x28) || vk == 0x5B
}

func virtualKey(key string) (uint16, error) {
	if vk, ok := virtualKeys[key]; ok {
		return vk, nil
	}
	if len(key) == 1 {
		c := key[0]
		switch {
		case c >= 'a' && c <= 'z':
			return uint16(c - 'a' + 'A'), nil
		case c >= '0' && c <= '9':
			return uint16(c), nil
		}
	}
	return 0, fmt.Errorf("no virtual key for %q", key)
}

func keyEvent(vk uint16, down bool) input {
	flags := uint32(0)
	if !down {
		flags |= keyeventfKeyUp
	}
	if isExtended(vk) {
		flags |= keyeventfExtended
	}
	return input{Type: inputKeyboard, Ki: keyboardInput{WVK: vk, DwFlags: flags}}
}

func sendInput(ins []input) error {
	if len(ins) == 0 {
		return nil
	}
	ret, _, err := procSendInput.Call(
		uintptr(len(ins)),
		uintptr(unsafe.Pointer(&ins[0])),
		unsafe.Sizeof(input{}),
	)
	if int(ret) != len(ins) {
		return fmt.Errorf("SendInput: %d of %d events injected: %w", ret, len(ins), err)
	}
	return nil
}

// Keyboard injects virtual-key events with SendInput.
type Keyboard struct{}

func (k *Keyboard) Press(key string) error {
	vk, err := virtualKey(key)
	if err != nil {
		return err
	}
	return sendInput([]input{keyEvent(vk, true), keyEvent(vk, false)})
}

// Combo presses keys in order and releases them in reverse, in one batch.
func (k *Keyboard) Combo(keys []string) error {
	vks := make([]uint16, 0, len(keys))
	for _, key := range keys {
		vk, err := virtualKey(key)
		if err != nil {
			return err
		}
		vks = append(vks, vk)
	}
	ins := make([]input, 0, 2*len(vks))
	for _, vk := range vks {
		ins = append(ins, keyEvent(vk, true))
	}
	for i := len(vks) - 1; i >= 0; i-- {
		ins = append(ins, keyEvent(vks[i], false))
	}
	return sendInput(ins)
}
