// Package usbid looks up vendor and product names in the USB ID database
// (usb.ids) distributed with most Linux systems.
//
//	db := usbid.New()
//	db.Load()
//	fmt.Println(db.Describe(0x1a86, 0x7523))
//
// Names of the USB to UART bridges this module drives are built in, so
// Describe is useful even where no usb.ids file exists. All methods are safe
// for concurrent use.
package usbid
