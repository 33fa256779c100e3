// Command psaping is a minimal interactive connectivity smoke test for a
// PSA device: it opens a serial port, pings the device, lists its sensors,
// and optionally runs TEST_ALL. It has no subcommands and no station-
// service integration — it exists only to let a developer point the
// library at a live device and see a PONG.
package main

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Soochol/PSA-sensor-test/psa"
	"github.com/Soochol/PSA-sensor-test/transport"
)

func main() {
	reader := bufio.NewReader(os.Stdin)
	log.Println("enter the serial port path (e.g. /dev/ttyUSB0):")
	portLine, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal(err)
	}
	portName := portLine[:len(portLine)-1]

	log.Println("enter the baud rate (e.g. 115200):")
	baudLine, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal(err)
	}
	baud, err := strconv.Atoi(baudLine[:len(baudLine)-1])
	if err != nil {
		log.Fatal(err)
	}

	log.Println("opening", portName, "at", baud, "baud")
	t := transport.NewSerialTransport(portName, baud)
	if err := t.Open(); err != nil {
		log.Fatal(err)
	}
	defer t.Close()

	c := psa.NewClient(t, nil)
	c.ResponseTimeout = 2 * time.Second

	log.Println("pinging device...")
	version, err := c.Ping()
	if err != nil {
		log.Fatal(err)
	}
	log.Println("device firmware version:", version)

	log.Println("enumerating sensors...")
	sensors, err := c.GetSensorList()
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range sensors {
		log.Println(" -", s.SensorID, s.Name)
	}

	log.Println("press enter to run TEST_ALL, or ctrl-C to quit")
	reader.ReadString('\n')

	report, err := c.TestAll(10 * time.Second)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("test report: %d/%d passed, all passed = %v\n", report.PassCount, report.SensorCount, report.AllPassed())
	for _, r := range report.Results {
		log.Println(" -", r.SensorID, r.Status)
	}
}
